package listeners

import (
	"context"

	"equipment-access/internal/events"
	"equipment-access/internal/metrics"
	"equipment-access/pkg/eventbus"
)

type MetricsListener struct {
	recorder *metrics.Recorder
}

func NewMetricsListener(recorder *metrics.Recorder) *MetricsListener {
	return &MetricsListener{recorder: recorder}
}

func (l *MetricsListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.AccessToggled, func(_ context.Context, event eventbus.Event) error {
		if e, ok := event.(events.AccessToggledEvent); ok {
			l.recorder.Toggled(string(e.Request.Type))
		}
		return nil
	})
	bus.Subscribe(events.AccessRequestCreated, func(context.Context, eventbus.Event) error {
		l.recorder.RequestCreated()
		return nil
	})
}
