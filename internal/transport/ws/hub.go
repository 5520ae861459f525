package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Validator notification types
const (
	MsgValidationAssigned  MessageType = "validation_assigned"
	MsgValidationFinalized MessageType = "validation_finalized"
	MsgValidationRejected  MessageType = "validation_rejected"
	MsgContentRevised      MessageType = "content_revised"
	MsgError               MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for validators. It implements
// service.Notifier: delivery is fire-and-forget and silently dropped for
// validators who are not connected.
type Hub struct {
	conns map[string]*Connection // validatorID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	notify     chan *notification

	logger *zap.Logger
}

// Connection represents a validator's WebSocket connection
type Connection struct {
	ValidatorID string
	Send        chan []byte
	Hub         *Hub
}

type notification struct {
	validatorID string
	message     *Message
}

// NewHub creates a new notification hub
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		notify:     make(chan *notification, 256),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn.ValidatorID] = conn
			h.mu.Unlock()
			h.logger.Info("validator connected", zap.String("validatorId", conn.ValidatorID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.ValidatorID]; ok && existing == conn {
				delete(h.conns, conn.ValidatorID)
				close(conn.Send)
				h.logger.Info("validator disconnected", zap.String("validatorId", conn.ValidatorID))
			}
			h.mu.Unlock()

		case n := <-h.notify:
			h.mu.RLock()
			if conn, ok := h.conns[n.validatorID]; ok {
				data, _ := json.Marshal(n.message)
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// NotifyValidator sends a message to one validator (implements
// service.Notifier). Offline validators are skipped.
func (h *Hub) NotifyValidator(validatorID string, event string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.notify <- &notification{
		validatorID: validatorID,
		message: &Message{
			Type:    MessageType(event),
			Payload: data,
		},
	}
}
