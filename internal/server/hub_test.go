package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"forest-rails/internal/core"
	"forest-rails/internal/sims/forest"
)

func startHub(t *testing.T) (*websocket.Conn, *forest.World) {
	t.Helper()
	cfg := forest.DefaultConfig()
	cfg.Rows, cfg.Cols = 4, 4
	cfg.Timing.GrowthInterval = time.Hour
	cfg.Timing.PulseInterval = 10 * time.Millisecond
	w := forest.NewWithConfig(cfg)
	w.Reset(3)

	hub := NewHub(w, log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()

	srv := httptest.NewServer(hub.Handler())
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		cancel()
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
		srv.Close()
	})
	return conn, w
}

// readUntil returns the first frame accepted by match.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Frame) bool) Frame {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if match(f) {
			return f
		}
	}
	t.Fatal("no matching frame before deadline")
	return Frame{}
}

func TestHubSendsSnapshotOnJoin(t *testing.T) {
	conn, _ := startHub(t)
	f := readUntil(t, conn, func(f Frame) bool { return f.Type == FrameSnapshot })
	if f.Snapshot == nil || f.Snapshot.Rows != 4 || f.Snapshot.Cols != 4 || len(f.Snapshot.Forest) != 1 {
		t.Fatalf("join snapshot %+v", f.Snapshot)
	}
}

func TestHubAppliesActions(t *testing.T) {
	conn, _ := startHub(t)
	first := readUntil(t, conn, func(f Frame) bool { return f.Type == FrameSnapshot })
	seed := first.Snapshot.Forest[0].Cell
	target := core.Cell{Row: (seed.Row + 1) % 4, Col: seed.Col}

	if err := conn.WriteJSON(Message{Type: MsgRail, Row: target.Row, Col: target.Col}); err != nil {
		t.Fatalf("write: %v", err)
	}
	res := readUntil(t, conn, func(f Frame) bool { return f.Type == FrameResult })
	if res.Accepted == nil || !*res.Accepted {
		t.Fatalf("rail on open ground not accepted: %+v", res)
	}
	readUntil(t, conn, func(f Frame) bool {
		if f.Type != FrameSnapshot {
			return false
		}
		for _, c := range f.Snapshot.Rails {
			if c == target {
				return true
			}
		}
		return false
	})

	if err := conn.WriteJSON(Message{Type: MsgRail, Row: seed.Row, Col: seed.Col}); err != nil {
		t.Fatalf("write: %v", err)
	}
	res = readUntil(t, conn, func(f Frame) bool { return f.Type == FrameResult })
	if res.Accepted == nil || *res.Accepted {
		t.Fatal("rail on forest accepted")
	}

	conn.WriteJSON(Message{Type: MsgMode, Mode: "fence"})
	readUntil(t, conn, func(f Frame) bool { return f.Type == FrameResult })
	conn.WriteJSON(Message{Type: MsgTap, Row: target.Row, Col: 0})
	readUntil(t, conn, func(f Frame) bool { return f.Type == FrameResult })
	readUntil(t, conn, func(f Frame) bool {
		return f.Type == FrameSnapshot && f.Snapshot.Mode == forest.ModeFence && len(f.Snapshot.Pending)+len(f.Snapshot.Active) == 1
	})
}

func TestHubRejectsUnknownMessages(t *testing.T) {
	conn, _ := startHub(t)
	if err := conn.WriteJSON(Message{Type: "teleport"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := readUntil(t, conn, func(f Frame) bool { return f.Type == FrameError })
	if !strings.Contains(f.Error, "teleport") {
		t.Fatalf("error frame %q", f.Error)
	}
	conn.WriteJSON(Message{Type: MsgFence, Orientation: "diagonal"})
	readUntil(t, conn, func(f Frame) bool { return f.Type == FrameError })
}
