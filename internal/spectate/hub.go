// Package spectate streams battle events to read-only websocket viewers.
//
// Every battle event becomes a Frame, encoded with msgpack and sent as a
// binary websocket message. Viewers that join late first receive the frames
// they missed.
package spectate

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Garsondee/void-tactics/internal/battle"
)

const (
	maxHistory = 4096
	sendBuffer = maxHistory + 256
	writeWait  = 5 * time.Second
)

// Frame is the envelope of every spectator message. Payload holds the
// msgpack encoding of the event named by Type.
type Frame struct {
	Type    string             `msgpack:"type"`
	Round   int                `msgpack:"round"`
	Player  string             `msgpack:"player"`
	Payload msgpack.RawMessage `msgpack:"payload"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected viewer.
type Hub struct {
	clients    map[*client]bool
	history    [][]byte
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	count      atomic.Int32
	dropped    atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int { return int(h.count.Load()) }

// Dropped counts frames discarded because the hub or a viewer fell behind.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Run is the hub loop. It blocks until ctx is done, then disconnects every
// viewer.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			h.drop(c)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = true
			h.count.Add(1)
			for _, msg := range h.history {
				c.send <- msg
			}
			log.Printf("spectate: viewer connected (%d)", len(h.clients))
		case c := <-h.unregister:
			h.drop(c)
		case msg := <-h.broadcast:
			if len(h.history) == maxHistory {
				h.history = h.history[1:]
			}
			h.history = append(h.history, msg)
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.dropped.Add(1)
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	h.count.Add(-1)
	close(c.send)
}

// Publish encodes f and queues it for broadcast. It never blocks: when the
// queue is full the frame is dropped.
func (h *Hub) Publish(f Frame) error {
	msg, err := msgpack.Marshal(&f)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- msg:
	default:
		h.dropped.Add(1)
	}
	return nil
}

// Attach streams every event b emits from now on.
func (h *Hub) Attach(b *battle.Battle) {
	b.Subscribe(func(e battle.Event) {
		payload, err := msgpack.Marshal(e)
		if err != nil {
			log.Printf("spectate: encode %s: %v", e.Kind(), err)
			return
		}
		f := Frame{Type: e.Kind(), Round: b.Round(), Payload: payload}
		if p := b.Current(); p != nil {
			f.Player = p.Name()
		}
		if err := h.Publish(f); err != nil {
			log.Printf("spectate: publish %s: %v", e.Kind(), err)
		}
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades r to a viewer connection. Viewers cannot send commands;
// anything they write is discarded.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("spectate: upgrade:", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("spectate: read: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
