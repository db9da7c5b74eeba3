// Package realtime fans comment events out to connected websocket
// clients. Scope is global: every subscriber receives every event
// regardless of which post they are viewing.
package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"quill/internal/domain"
	"quill/internal/observability"
)

// ErrConnectionGone marks a connection the transport has confirmed is
// permanently unreachable. Transports must translate their close/broken
// errors into this sentinel; any other delivery error is treated as
// transient and does not evict the connection.
var ErrConnectionGone = errors.New("connection gone")

// Conn is one realtime subscriber. WriteJSON must be safe to call from
// the broadcaster's goroutines; the deadline bounds a single write.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
}

// Event is the wire envelope delivered to subscribers.
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types.
const (
	EventCommentUpdate = "comment_update"
	EventCommentsList  = "comments_list"
)

const defaultWriteTimeout = 5 * time.Second

// Broadcaster is the process-wide fan-out hub. Deliveries are
// best-effort and independent per connection: one subscriber failing
// never blocks or fails delivery to the others. Connections reported
// gone are evicted as a side effect of the failed attempt.
type Broadcaster struct {
	mu    sync.RWMutex
	conns map[string]Conn

	writeTimeout time.Duration
	now          func() time.Time
	inflight     sync.WaitGroup
	wsLog        *observability.WSLogger
}

// NewBroadcaster creates an empty hub. A zero timeout falls back to the
// default; a nil clock falls back to time.Now.
func NewBroadcaster(writeTimeout time.Duration, now func() time.Time) *Broadcaster {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &Broadcaster{
		conns:        make(map[string]Conn),
		writeTimeout: writeTimeout,
		now:          now,
		wsLog:        observability.NewWSLogger("comments"),
	}
}

// AddConnection registers a connection under id. Re-adding an id
// replaces the previous connection.
func (b *Broadcaster) AddConnection(id string, conn Conn) {
	b.mu.Lock()
	b.conns[id] = conn
	total := len(b.conns)
	b.mu.Unlock()

	observability.WebSocketConnectionsTotal.Set(float64(total))
	b.wsLog.LogConnect(context.Background(), id, total)
}

// RemoveConnection unregisters a connection. Removing an unknown id is
// a no-op.
func (b *Broadcaster) RemoveConnection(id string) {
	b.removeConnection(id, "unregistered")
}

func (b *Broadcaster) removeConnection(id, reason string) {
	b.mu.Lock()
	_, present := b.conns[id]
	delete(b.conns, id)
	total := len(b.conns)
	b.mu.Unlock()

	if present {
		observability.WebSocketConnectionsTotal.Set(float64(total))
		b.wsLog.LogDisconnect(context.Background(), id, reason, total)
	}
}

// ConnectionCount returns the number of live subscribers.
func (b *Broadcaster) ConnectionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns)
}

// BroadcastComment delivers a newly created comment to every subscriber.
func (b *Broadcaster) BroadcastComment(ctx context.Context, postID string, comment *domain.Comment) {
	observability.CommentEventsTotal.WithLabelValues(EventCommentUpdate).Inc()
	b.broadcast(ctx, Event{
		Type: EventCommentUpdate,
		Data: map[string]any{
			"post_id": postID,
			"comment": comment,
		},
		Timestamp: b.now().UTC(),
	})
}

// BroadcastCommentsList delivers the refreshed comment thread of a post
// to every subscriber.
func (b *Broadcaster) BroadcastCommentsList(ctx context.Context, postID string, comments []*domain.Comment) {
	observability.CommentEventsTotal.WithLabelValues(EventCommentsList).Inc()
	b.broadcast(ctx, Event{
		Type: EventCommentsList,
		Data: map[string]any{
			"post_id":  postID,
			"comments": comments,
			"count":    len(comments),
		},
		Timestamp: b.now().UTC(),
	})
}

// broadcast fans the event out to a snapshot of the membership set, one
// goroutine per connection, and waits for the attempts to finish. Every
// write carries a deadline so a slow subscriber cannot hang the fan-out.
// Ordering across connections is not guaranteed.
func (b *Broadcaster) broadcast(ctx context.Context, event Event) {
	b.inflight.Add(1)
	defer b.inflight.Done()

	b.mu.RLock()
	snapshot := make(map[string]Conn, len(b.conns))
	for id, conn := range b.conns {
		snapshot[id] = conn
	}
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	var (
		wg        sync.WaitGroup
		delivered atomic.Int64
		evicted   atomic.Int64
	)
	for id, conn := range snapshot {
		wg.Add(1)
		go func(id string, conn Conn) {
			defer wg.Done()
			_ = conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))
			err := conn.WriteJSON(event)
			switch {
			case err == nil:
				observability.BroadcastDeliveries.WithLabelValues(observability.DeliveryOK).Inc()
				delivered.Add(1)
			case errors.Is(err, ErrConnectionGone):
				observability.BroadcastDeliveries.WithLabelValues(observability.DeliveryGone).Inc()
				observability.BroadcastEvictions.Inc()
				b.removeConnection(id, "gone")
				evicted.Add(1)
			default:
				// Transient: log and leave the connection registered.
				observability.BroadcastDeliveries.WithLabelValues(observability.DeliveryTransient).Inc()
				b.wsLog.LogDeliveryError(ctx, id, err)
			}
		}(id, conn)
	}
	wg.Wait()

	b.wsLog.LogBroadcast(ctx, event.Type, int(delivered.Load()), int(evicted.Load()))
}

// Shutdown waits for in-flight broadcasts to drain or the context to
// expire, then drops all connections.
func (b *Broadcaster) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	b.mu.Lock()
	b.conns = make(map[string]Conn)
	b.mu.Unlock()
	observability.WebSocketConnectionsTotal.Set(0)
	return err
}
