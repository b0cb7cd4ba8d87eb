package report

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

// A4 portrait geometry in millimetres.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	marginMM     = 10.0
	headerMM     = 16.0
	footerMM     = 10.0
)

// BuildPDF lays a tall dashboard bitmap out across as many A4 pages as it
// needs. The bitmap keeps its native aspect ratio; each page gets a vertical
// slice cropped out of the original so nothing is squashed.
func BuildPDF(pngData []byte, title string, generatedAt time.Time) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()
	if imgW == 0 || imgH == 0 {
		return nil, fmt.Errorf("snapshot is empty")
	}

	contentWidthMM := pageWidthMM - 2*marginMM
	pxPerMM := float64(imgW) / contentWidthMM
	usableHeightMM := pageHeightMM - marginMM - headerMM - footerMM
	sliceHeightPx := int(usableHeightMM * pxPerMM)
	if sliceHeightPx < 1 {
		sliceHeightPx = imgH
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerMM)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, footerMM,
			fmt.Sprintf("Generated %s  |  Page %d/{nb}", generatedAt.Format("2006-01-02 15:04 MST"), pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")

	for top, page := 0, 0; top < imgH; top, page = top+sliceHeightPx, page+1 {
		bottom := top + sliceHeightPx
		if bottom > imgH {
			bottom = imgH
		}
		slice := imaging.Crop(img, image.Rect(0, top, imgW, bottom))

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, slice, imaging.PNG); err != nil {
			return nil, fmt.Errorf("failed to encode page slice: %w", err)
		}

		pdf.AddPage()
		if page == 0 {
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 5, "Carbon emissions report", "", 1, "L", false, 0, "")
			pdf.Ln(2)
		} else {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 6, fmt.Sprintf("%s (continued)", title), "", 1, "L", false, 0, "")
			pdf.SetY(marginMM + headerMM)
		}

		name := fmt.Sprintf("snapshot-page-%d", page)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		sliceHeightMM := float64(bottom-top) / pxPerMM
		pdf.ImageOptions(name, marginMM, pdf.GetY(), contentWidthMM, sliceHeightMM, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return out.Bytes(), nil
}
