package service

import (
	"sync"
	"testing"
	"time"

	"quill/internal/realtime"
)

// recorderConn captures broadcast event types for assertions.
type recorderConn struct {
	mu   sync.Mutex
	seen []string
}

func (c *recorderConn) WriteJSON(v interface{}) error {
	event, ok := v.(realtime.Event)
	if !ok {
		return nil
	}
	c.mu.Lock()
	c.seen = append(c.seen, event.Type)
	c.mu.Unlock()
	return nil
}

func (c *recorderConn) SetWriteDeadline(time.Time) error { return nil }

func (c *recorderConn) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.seen))
	copy(out, c.seen)
	return out
}

type broadcasterFixture struct {
	b    *realtime.Broadcaster
	conn *recorderConn
}

// realtimeWithRecorder wires a broadcaster with a single recording
// subscriber.
func realtimeWithRecorder(t *testing.T) *broadcasterFixture {
	t.Helper()
	conn := &recorderConn{}
	b := realtime.NewBroadcaster(0, nil)
	b.AddConnection("recorder", conn)
	return &broadcasterFixture{b: b, conn: conn}
}
