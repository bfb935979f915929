package events

import (
	"testing"

	"github.com/1broseidon/tilesync/internal/model"
)

func TestBus_FansOutToSubscribers(t *testing.T) {
	bus := NewBus()
	a, cancelA := bus.Subscribe()
	b, cancelB := bus.Subscribe()
	defer cancelB()

	bus.Emit(model.Event{Type: model.EventFocusChanged})

	for name, ch := range map[string]<-chan model.Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.Type != model.EventFocusChanged {
				t.Fatalf("%s: unexpected event %q", name, ev.Type)
			}
		default:
			t.Fatalf("%s: expected an event", name)
		}
	}

	cancelA()
	cancelA()
	if _, ok := <-a; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	if got := bus.Subscribers(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}
}

func TestBus_EmitDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Emit(model.Event{Type: model.EventFocusChanged})
	}
	if len(ch) != subscriberBuffer {
		t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, len(ch))
	}
}
