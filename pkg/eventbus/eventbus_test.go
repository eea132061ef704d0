package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type pinged struct{}

func (pinged) Name() string { return "test.pinged" }

type other struct{}

func (other) Name() string { return "test.other" }

func TestPublish_DeliversToSubscribers(t *testing.T) {
	bus := New(zap.NewNop())

	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.pinged", func(ctx context.Context, e Event) error {
			_, ok := e.(pinged)
			assert.True(t, ok)
			calls.Add(1)
			return nil
		})
	}

	bus.Publish(context.Background(), pinged{})
	bus.Publish(context.Background(), other{})
	bus.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestPublish_LogsListenerErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := New(zap.New(core))

	bus.Subscribe("test.pinged", func(context.Context, Event) error {
		return errors.New("boom")
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pinged{})
	cancel()
	bus.Wait()

	entries := logs.FilterMessage("event listener failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "test.pinged", entries[0].ContextMap()["event"])
	}
}
