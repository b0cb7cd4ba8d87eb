package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/ports"
)

const (
	viewportWidth  = 1280
	viewportHeight = 900
	stableWindow   = 300 * time.Millisecond
)

// RodSnapshotSource drives a headless Chromium instance to rasterize the
// dashboard. The browser is launched lazily on first capture and reused;
// each capture opens a fresh page so state never leaks between reports.
type RodSnapshotSource struct {
	dashboardURL string
	controlURL   string
	log          *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodSnapshotSource targets dashboardURL. controlURL may point at an
// already running browser (devtools websocket); when empty a local headless
// instance is launched.
func NewRodSnapshotSource(dashboardURL, controlURL string, log *zap.Logger) ports.SnapshotSource {
	return &RodSnapshotSource{
		dashboardURL: dashboardURL,
		controlURL:   controlURL,
		log:          log,
	}
}

func (s *RodSnapshotSource) Capture(ctx context.Context, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}

	browser, err := s.ensureBrowser(ctx)
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: s.dashboardURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open dashboard page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			s.log.Debug("Failed to close page", zap.Error(err))
		}
	}()
	page = page.Context(ctx)

	err = (proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: scale,
		Mobile:            false,
	}).Call(page)
	if err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("dashboard did not finish loading: %w", err)
	}
	// WaitStable blocks until the DOM stops mutating; the context deadline
	// caps how long a busy page can stall a report.
	if err := page.WaitStable(stableWindow); err != nil {
		return nil, fmt.Errorf("dashboard did not settle: %w", err)
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}

	s.log.Debug("Dashboard snapshot captured",
		zap.Float64("scale", scale),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

func (s *RodSnapshotSource) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}

	controlURL := s.controlURL
	if controlURL == "" {
		url, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s.browser = browser
	s.log.Info("Headless browser connected")
	return browser, nil
}

// Close shuts the shared browser down.
func (s *RodSnapshotSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	return err
}
