package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/domain"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	out   []domain.Field
}

func (l *countingLoader) ListByTable(context.Context, primitive.ObjectID) ([]domain.Field, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.out, nil
}

func TestCacheServesFromMemory(t *testing.T) {
	loader := &countingLoader{out: []domain.Field{{Slug: "title", Type: "shortText"}}}
	c := New(loader, time.Minute, nil)
	table := primitive.NewObjectID()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		fields, err := c.ListByTable(ctx, table)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(fields) != 1 || fields[0].Slug != "title" {
			t.Fatalf("fields = %+v", fields)
		}
	}
	if loader.calls != 1 {
		t.Fatalf("loader called %d times, want 1", loader.calls)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	loader := &countingLoader{}
	c := New(loader, time.Minute, nil)
	table := primitive.NewObjectID()
	ctx := context.Background()

	if _, err := c.ListByTable(ctx, table); err != nil {
		t.Fatalf("list: %v", err)
	}
	c.Invalidate(table)
	if _, err := c.ListByTable(ctx, table); err != nil {
		t.Fatalf("list: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("loader called %d times, want 2", loader.calls)
	}
}

func TestExpiryForcesReload(t *testing.T) {
	loader := &countingLoader{}
	c := New(loader, time.Nanosecond, nil)
	table := primitive.NewObjectID()
	ctx := context.Background()

	if _, err := c.ListByTable(ctx, table); err != nil {
		t.Fatalf("list: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := c.ListByTable(ctx, table); err != nil {
		t.Fatalf("list: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("loader called %d times, want 2", loader.calls)
	}
}
