// Package stream implements the WebSocket push boundary: a hub fans
// trade and book-update events out to subscribers, each tracking its
// own set of subscribed channels.
package stream

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	sendQueueSize = 64
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = pongWait * 9 / 10
)

// controlMessage is the client->server JSON shape for channel
// management: {"action":"subscribe","channel":"trades"}.
type controlMessage struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// Subscriber is one connected WebSocket client. Its send queue is
// bounded; a slow reader has its oldest unsent message dropped rather
// than blocking the hub's broadcast path.
type Subscriber struct {
	id   string
	conn *websocket.Conn

	mu       sync.Mutex
	channels map[string]bool

	send chan []byte
	done chan struct{}
}

func newSubscriber(id string, conn *websocket.Conn) *Subscriber {
	return &Subscriber{
		id:       id,
		conn:     conn,
		channels: make(map[string]bool),
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
	}
}

// subscribed reports whether this subscriber wants channel.
func (s *Subscriber) subscribed(channel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels[channel]
}

// Enqueue hands payload to this subscriber's writer, dropping the
// oldest queued message if the queue is already full. Never blocks.
func (s *Subscriber) Enqueue(payload []byte) {
	select {
	case s.send <- payload:
	default:
		select {
		case <-s.send:
		default:
		}
		select {
		case s.send <- payload:
		default:
		}
	}
}

// readPump processes subscribe/unsubscribe control messages until the
// connection closes, then signals writePump to stop.
func (s *Subscriber) readPump() {
	defer close(s.done)

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Str("subscriber", s.id).Msg("malformed control message")
			continue
		}
		s.applyControl(msg)
	}
}

func (s *Subscriber) applyControl(msg controlMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch msg.Action {
	case "subscribe":
		s.channels[msg.Channel] = true
	case "unsubscribe":
		delete(s.channels, msg.Channel)
	default:
		log.Warn().Str("subscriber", s.id).Str("action", msg.Action).Msg("unknown control action")
	}
}

// writePump drains the send queue onto the socket and pings on an
// interval, until readPump signals the connection is gone.
func (s *Subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer s.conn.Close()

	for {
		select {
		case <-s.done:
			return
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
