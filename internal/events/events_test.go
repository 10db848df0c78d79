package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type flakySink struct {
	mu       sync.Mutex
	failures int
	got      []Event
}

func (s *flakySink) Send(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("transient")
	}
	s.got = append(s.got, e)
	return nil
}

type recordDLQ struct {
	mu    sync.Mutex
	count int
}

func (d *recordDLQ) Store(context.Context, Event, int, string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.count++
	return nil
}

func TestDispatcherRetriesThenDelivers(t *testing.T) {
	s := &flakySink{failures: 2}
	cfg := Config{}
	cfg.Retry.MaxAttempts = 3
	cfg.Retry.InitialDelay = time.Millisecond
	d := NewDispatcher(cfg, nil, s)
	d.Emit(context.Background(), Event{Name: "row.created", ID: "1"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		n := len(s.got)
		s.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("event never delivered after retries")
}

func TestDispatcherDeadLetters(t *testing.T) {
	s := &flakySink{failures: 100}
	dlq := &recordDLQ{}
	cfg := Config{}
	cfg.Retry.MaxAttempts = 2
	cfg.Retry.InitialDelay = time.Millisecond
	d := NewDispatcher(cfg, dlq, s)
	d.Emit(context.Background(), Event{Name: "row.created"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		dlq.mu.Lock()
		n := dlq.count
		dlq.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("exhausted event never reached the DLQ")
}

type ctxSink struct {
	mu     sync.Mutex
	ctxErr error
	calls  int
}

func (s *ctxSink) Send(ctx context.Context, _ Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxErr = ctx.Err()
	s.calls++
	return nil
}

func TestEmitOutlivesRequestContext(t *testing.T) {
	s := &ctxSink{}
	d := NewDispatcher(Config{}, nil, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Emit(ctx, Event{Name: "row.created"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		calls, ctxErr := s.calls, s.ctxErr
		s.mu.Unlock()
		if calls == 1 {
			if ctxErr != nil {
				t.Fatalf("sink saw canceled context: %v", ctxErr)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("event never delivered")
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Emit(context.Background(), Event{Name: "table.created"})
}

func TestWebhookSinkSigns(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("X-GB-Signature") == "" {
			t.Error("missing signature header")
		}
	}))
	defer srv.Close()

	s := NewWebhookSink(WebhookConfig{Enabled: true, Endpoint: srv.URL, Secret: "shh"})
	if err := s.Send(context.Background(), Event{Name: "field.created"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one delivery, got %d", calls)
	}
}
