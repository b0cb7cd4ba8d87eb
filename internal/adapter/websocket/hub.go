package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/carboniq/server/internal/adapter/queue"
	"github.com/carboniq/server/internal/observability/telemetry"
)

// event is the envelope pushed to dashboard clients.
type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// orgScoped is the subset of every queue payload the hub needs for routing.
type orgScoped struct {
	OrganizationID string `json:"organization_id"`
}

type envelope struct {
	orgID string
	data  []byte
}

// Hub fans queue events out to connected dashboard clients. Each client is
// pinned to one organization and only sees that organization's events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger

	mu sync.RWMutex
}

type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	orgID string
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// SubscribeQueue wires the hub onto the broker subjects it relays.
func (h *Hub) SubscribeQueue(mq queue.MessageQueue) error {
	subjects := map[string]string{
		queue.SubjectEmissionsIngested: "emissions_ingested",
		queue.SubjectAlertRaised:       "alert_raised",
		queue.SubjectReportGenerated:   "report_generated",
	}
	for subject, eventType := range subjects {
		subject, eventType := subject, eventType
		err := mq.Subscribe(subject, func(data []byte) error {
			h.Relay(eventType, data)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Relay routes one queue payload to the owning organization's clients.
func (h *Hub) Relay(eventType string, payload []byte) {
	var scope orgScoped
	if err := json.Unmarshal(payload, &scope); err != nil || scope.OrganizationID == "" {
		h.log.Debug("Dropping unroutable event", zap.String("type", eventType))
		return
	}

	msg, err := json.Marshal(event{Type: eventType, Payload: payload})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- envelope{orgID: scope.OrganizationID, data: msg}:
	default:
		h.log.Warn("Broadcast buffer full, dropping event", zap.String("type", eventType))
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			telemetry.WebsocketClients.Inc()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				telemetry.WebsocketClients.Dec()
			}
			h.mu.Unlock()
		case env := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.orgID != env.orgID {
					continue
				}
				select {
				case client.send <- env.data:
				default:
					close(client.send)
					delete(h.clients, client)
					telemetry.WebsocketClients.Dec()
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) AddClient(conn *websocket.Conn, orgID string) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), orgID: orgID}
	client.hub.register <- client

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// The dashboard never sends data; the read loop only services
		// control frames and detects disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		// Drain anything queued behind this frame.
		n := len(c.send)
		for i := 0; i < n; i++ {
			w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
