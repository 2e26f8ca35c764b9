package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistWorker(t *testing.T) {
	t.Run("Success: runs jobs in enqueue order", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		w := NewPersistWorker(10)
		w.Start(ctx)

		var mu sync.Mutex
		var order []string
		done := make(chan struct{})

		for _, name := range []string{"a", "b", "c"} {
			n := name
			require.True(t, w.Enqueue(PersistJob{Name: n, Run: func(ctx context.Context) error {
				mu.Lock()
				order = append(order, n)
				if len(order) == 3 {
					close(done)
				}
				mu.Unlock()
				return nil
			}}))
		}

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("jobs did not run")
		}

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("Failing job does not stop the worker", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		w := NewPersistWorker(10)
		w.Start(ctx)

		ran := make(chan struct{})
		w.Enqueue(PersistJob{Name: "broken", Run: func(ctx context.Context) error {
			return errors.New("db down")
		}})
		w.Enqueue(PersistJob{Name: "next", Run: func(ctx context.Context) error {
			close(ran)
			return nil
		}})

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("second job did not run")
		}
	})

	t.Run("Full queue drops instead of blocking", func(t *testing.T) {
		w := NewPersistWorker(1)
		noop := PersistJob{Name: "noop", Run: func(ctx context.Context) error { return nil }}

		assert.True(t, w.Enqueue(noop))
		assert.False(t, w.Enqueue(noop))
	})

	t.Run("Shutdown drains queued jobs", func(t *testing.T) {
		w := NewPersistWorker(5)

		count := 0
		for i := 0; i < 3; i++ {
			w.Enqueue(PersistJob{Name: "job", Run: func(ctx context.Context) error {
				count++
				return nil
			}})
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w.Start(ctx)
		w.Wait()

		assert.Equal(t, 3, count)
	})

	t.Run("Jobs enqueued after shutdown still run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		w := NewPersistWorker(5)
		w.Start(ctx)
		cancel()
		w.Wait()

		ran := false
		assert.True(t, w.Enqueue(PersistJob{Name: "late", Run: func(ctx context.Context) error {
			ran = true
			return ctx.Err()
		}}))
		assert.True(t, ran)
	})
}
