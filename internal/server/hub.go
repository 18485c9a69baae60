package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"forest-rails/internal/core"
	"forest-rails/internal/sims/forest"
)

// Message is an action sent by a client.
type Message struct {
	Type        string `json:"type"`
	Row         int    `json:"row,omitempty"`
	Col         int    `json:"col,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Seed        int64  `json:"seed,omitempty"`
}

const (
	MsgRail   = "rail"
	MsgFence  = "fence"
	MsgTap    = "tap"
	MsgMode   = "mode"
	MsgRotate = "rotate"
	MsgReset  = "reset"
)

// Frame is what the hub sends to clients.
type Frame struct {
	Type     string           `json:"type"`
	Snapshot *forest.Snapshot `json:"snapshot,omitempty"`
	Events   []forest.Event   `json:"events,omitempty"`
	Accepted *bool            `json:"accepted,omitempty"`
	Error    string           `json:"error,omitempty"`
}

const (
	FrameSnapshot = "snapshot"
	FrameResult   = "result"
	FrameError    = "error"
)

type envelope struct {
	from *client
	msg  Message
}

type client struct {
	out chan []byte
}

// Hub owns one World. Every mutation happens on the Run goroutine; clients
// talk to it through channels.
type Hub struct {
	world *forest.World
	log   *log.Logger
	now   func() time.Time

	inbox chan envelope
	join  chan *client
	leave chan *client

	clients map[*client]struct{}
	events  []forest.Event
}

// NewHub wraps w. The world should already be Reset.
func NewHub(w *forest.World, logger *log.Logger) *Hub {
	h := &Hub{
		world:   w,
		log:     logger,
		now:     time.Now,
		inbox:   make(chan envelope, 256),
		join:    make(chan *client),
		leave:   make(chan *client),
		clients: map[*client]struct{}{},
	}
	w.OnEvent(func(e forest.Event) { h.events = append(h.events, e) })
	return h
}

// Run drives both cadences from a ticker at the pulse interval until ctx is
// done.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.world.Config().Timing.PulseInterval)
	defer ticker.Stop()
	h.world.Advance(h.now())

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.out)
			}
			return ctx.Err()
		case c := <-h.join:
			h.clients[c] = struct{}{}
			h.send(c, h.snapshotFrame(h.now(), nil))
		case c := <-h.leave:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.out)
			}
		case env := <-h.inbox:
			h.handle(env)
		case <-ticker.C:
			now := h.now()
			h.world.Advance(now)
			h.broadcast(h.snapshotFrame(now, h.takeEvents()))
		}
	}
}

func (h *Hub) takeEvents() []forest.Event {
	if len(h.events) == 0 {
		return nil
	}
	out := h.events
	h.events = nil
	return out
}

func (h *Hub) snapshotFrame(now time.Time, events []forest.Event) Frame {
	snap := h.world.Snapshot(now)
	return Frame{Type: FrameSnapshot, Snapshot: &snap, Events: events}
}

func (h *Hub) handle(env envelope) {
	accepted, err := h.apply(env.msg, h.now())
	if err != nil {
		h.send(env.from, Frame{Type: FrameError, Error: err.Error()})
		return
	}
	h.send(env.from, Frame{Type: FrameResult, Accepted: &accepted})
}

// apply executes one action against the world.
func (h *Hub) apply(m Message, now time.Time) (bool, error) {
	cell := core.Cell{Row: m.Row, Col: m.Col}
	switch m.Type {
	case MsgRail:
		return h.world.PlaceRail(cell, now), nil
	case MsgFence:
		o := h.world.Orientation()
		if m.Orientation != "" {
			parsed, ok := core.ParseOrientation(m.Orientation)
			if !ok {
				return false, fmt.Errorf("unknown orientation %q", m.Orientation)
			}
			o = parsed
		}
		return h.world.PlaceFence(cell, o, now), nil
	case MsgTap:
		return h.world.Tap(cell, now), nil
	case MsgMode:
		mode, ok := forest.ParseBuildMode(m.Mode)
		if !ok {
			return false, fmt.Errorf("unknown mode %q", m.Mode)
		}
		h.world.SetBuildMode(mode)
		return true, nil
	case MsgRotate:
		h.world.ToggleOrientation()
		return true, nil
	case MsgReset:
		h.world.Reset(m.Seed)
		h.world.Advance(now)
		h.log.Printf("reset seed=%d", h.world.Seed())
		return true, nil
	}
	return false, fmt.Errorf("unknown message type %q", m.Type)
}

func (h *Hub) broadcast(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		h.log.Printf("encode frame: %v", err)
		return
	}
	for c := range h.clients {
		h.offer(c, b)
	}
}

func (h *Hub) send(c *client, f Frame) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	b, err := json.Marshal(f)
	if err != nil {
		h.log.Printf("encode frame: %v", err)
		return
	}
	h.offer(c, b)
}

// offer drops the frame when the client is not keeping up.
func (h *Hub) offer(c *client, b []byte) {
	select {
	case c.out <- b:
	default:
	}
}
