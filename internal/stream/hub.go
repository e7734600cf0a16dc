package stream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/utils"
)

const (
	defaultFanoutWorkers = 16

	TradesChannel   = "trades"
	OrderbookChannel = "orderbook"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// outboundEvent is the wire shape pushed to subscribers of either
// channel.
type outboundEvent struct {
	Type  string               `json:"type"`
	Data  json.RawMessage      `json:"data"`
}

// fanoutTask is one (subscriber, payload) pair handed to the worker
// pool so a broadcast to many subscribers proceeds concurrently.
type fanoutTask struct {
	sub     *Subscriber
	payload []byte
}

// Hub tracks connected subscribers and fans trade/book events out to
// whichever of them subscribed to the relevant topic. Fan-out is spread
// across a worker pool so one slow subscriber's enqueue can't delay
// delivery to the rest.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	pool        utils.WorkerPool
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		pool:        utils.NewWorkerPool(defaultFanoutWorkers),
	}
}

// Run starts the hub's fan-out worker pool under t and blocks until the
// tomb dies. Call it from its own t.Go goroutine before accepting
// connections.
func (h *Hub) Run(t *tomb.Tomb) {
	h.pool.Setup(t, h.deliver)
}

// deliver is the WorkerFunction that performs one fanoutTask's enqueue.
func (h *Hub) deliver(_ *tomb.Tomb, task any) error {
	t, ok := task.(fanoutTask)
	if !ok {
		return nil
	}
	t.sub.Enqueue(t.payload)
	return nil
}

// ServeWS upgrades an HTTP request to a WebSocket connection and runs
// that subscriber's read/write pumps until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := newSubscriber(uuid.New().String(), conn)
	h.register(sub)
	defer h.unregister(sub)

	go sub.writePump()
	sub.readPump()
}

func (h *Hub) register(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub.id] = sub
	log.Info().Str("subscriber", sub.id).Msg("subscriber connected")
}

func (h *Hub) unregister(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sub.id)
	log.Info().Str("subscriber", sub.id).Msg("subscriber disconnected")
}

// PublishTrade fans a trade out to every subscriber of the "trades"
// topic.
func (h *Hub) PublishTrade(trade *common.Trade) {
	h.publish(TradesChannel, "trade", trade)
}

// PublishBookUpdate fans a depth-20 snapshot out to every subscriber of
// the "orderbook" topic.
func (h *Hub) PublishBookUpdate(symbol string, depth book.DepthSnapshot) {
	h.publish(OrderbookChannel, "orderbook", depth)
}

func (h *Hub) publish(channel, eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to encode event data")
		return
	}
	payload, err := json.Marshal(outboundEvent{Type: eventType, Data: raw})
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to encode event envelope")
		return
	}
	h.broadcast(channel, payload)
}

func (h *Hub) broadcast(channel string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers {
		if sub.subscribed(channel) {
			h.pool.AddTask(fanoutTask{sub: sub, payload: payload})
		}
	}
}
