// Package audit records who changed what. Appends are a best-effort
// post-commit hook: entries are buffered and written by a background
// flusher, and a failed write is reported to the operational channels
// (slog, Sentry) but never to the caller.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
	"github.com/getsentry/sentry-go"
)

type Stream string

const (
	Users    Stream = "users"
	Products Stream = "products"
)

// Sentinel is the performedBy value used when the caller is anonymous.
func Sentinel(s Stream) string {
	if s == Products {
		return "Unknown Admin"
	}
	return "unknown"
}

type Event struct {
	Action      string
	PerformedBy string
	Target      string
	Details     string
}

type Entry struct {
	Stream    Stream
	Event     Event
	Timestamp time.Time
}

// Sink persists a single entry.
type Sink interface {
	Write(ctx context.Context, e Entry) error
}

// StoreSink writes entries to the UserLogs and ProductLogs collections.
type StoreSink struct {
	store *store.Store
}

func NewStoreSink(s *store.Store) *StoreSink {
	return &StoreSink{store: s}
}

func (k *StoreSink) Write(ctx context.Context, e Entry) error {
	switch e.Stream {
	case Users:
		return k.store.UserLogs.Insert(ctx, &models.UserLog{
			Action:      e.Event.Action,
			PerformedBy: e.Event.PerformedBy,
			TargetUser:  e.Event.Target,
			Details:     e.Event.Details,
			Timestamp:   e.Timestamp,
		})
	case Products:
		return k.store.ProductLogs.Insert(ctx, &models.ProductLog{
			Action:        e.Event.Action,
			PerformedBy:   e.Event.PerformedBy,
			TargetProduct: e.Event.Target,
			Details:       e.Event.Details,
			Timestamp:     e.Timestamp,
		})
	default:
		return fmt.Errorf("unknown audit stream %q", e.Stream)
	}
}

// Logger buffers entries and flushes them on a ticker or when the buffer
// fills up. Both triggers run on the single flusher goroutine, so Stop
// returns only after every started write has finished.
type Logger struct {
	sink      Sink
	batchSize int

	mu     sync.Mutex
	buffer []Entry
	closed bool

	ticker *time.Ticker
	full   chan struct{}
	done   chan struct{}
	exited chan struct{}

	failed atomic.Int64
}

func New(sink Sink, interval time.Duration, batchSize int) *Logger {
	if batchSize <= 0 {
		batchSize = 50
	}
	l := &Logger{
		sink:      sink,
		batchSize: batchSize,
		buffer:    make([]Entry, 0, batchSize),
		ticker:    time.NewTicker(interval),
		full:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
	go l.flushLoop()
	return l
}

func (l *Logger) flushLoop() {
	defer close(l.exited)
	for {
		select {
		case <-l.ticker.C:
			l.Flush()
		case <-l.full:
			l.Flush()
		case <-l.done:
			l.Flush()
			return
		}
	}
}

// Append queues an event. It never fails and never blocks on I/O.
func (l *Logger) Append(ctx context.Context, stream Stream, ev Event) {
	if ev.PerformedBy == "" {
		ev.PerformedBy = Sentinel(stream)
	}
	entry := Entry{Stream: stream, Event: ev, Timestamp: time.Now().UTC()}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.write(entry)
		return
	}
	l.buffer = append(l.buffer, entry)
	needFlush := len(l.buffer) >= l.batchSize
	l.mu.Unlock()

	if needFlush {
		select {
		case l.full <- struct{}{}:
		default:
		}
	}
}

// Flush writes everything buffered so far.
func (l *Logger) Flush() {
	l.mu.Lock()
	if len(l.buffer) == 0 {
		l.mu.Unlock()
		return
	}
	batch := l.buffer
	l.buffer = make([]Entry, 0, l.batchSize)
	l.mu.Unlock()

	for _, e := range batch {
		l.write(e)
	}
}

func (l *Logger) write(e Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.sink.Write(ctx, e); err != nil {
		l.failed.Add(1)
		slog.Error("audit log append failed",
			"stream", string(e.Stream),
			"action", e.Event.Action,
			"target", e.Event.Target,
			"error", err,
		)
		sentry.CaptureException(err)
	}
}

// Failed is the number of entries that could not be written.
func (l *Logger) Failed() int64 {
	return l.failed.Load()
}

// Stop flushes pending entries and stops the background flusher. Entries
// appended afterwards are written inline.
func (l *Logger) Stop() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.ticker.Stop()
	close(l.done)
	<-l.exited
}
