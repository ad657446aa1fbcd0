package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comboselect/internal/domain"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := New()
	defer bus.Close()

	got := make(chan DomainEvent, 1)
	bus.Subscribe(EventLabelRefreshRequested, func(e DomainEvent) { got <- e })

	bus.Publish(domain.LabelRefreshRequestedEvent{HostID: "form", StatePath: "data.author"})

	select {
	case e := <-got:
		ev, ok := e.(domain.LabelRefreshRequestedEvent)
		require.True(t, ok)
		assert.Equal(t, "data.author", ev.StatePath)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	bus := New()
	defer bus.Close()

	var first, second atomic.Int32
	unsubFirst := bus.Subscribe(EventStateChanged, func(DomainEvent) { first.Add(1) })
	done := make(chan struct{}, 1)
	bus.Subscribe(EventStateChanged, func(DomainEvent) {
		second.Add(1)
		done <- struct{}{}
	})
	require.Equal(t, 2, bus.HandlerCount(EventStateChanged))

	unsubFirst()
	unsubFirst()
	assert.Equal(t, 1, bus.HandlerCount(EventStateChanged))

	bus.Publish(domain.StateChangedEvent{WidgetID: "w"})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("remaining handler not called")
	}
	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	bus := New()
	defer bus.Close()

	done := make(chan struct{}, 1)
	bus.Subscribe(EventWidgetDestroyed, func(DomainEvent) { panic("boom") })
	bus.Subscribe(EventWidgetDestroyed, func(DomainEvent) { done <- struct{}{} })

	bus.Publish(domain.WidgetDestroyedEvent{WidgetID: "w"})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("healthy handler starved by panicking one")
	}
}

func TestPublishAfterCloseDoesNotBlock(t *testing.T) {
	bus := New()
	bus.Close()
	bus.Close()

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 2000; i++ {
			bus.Publish(domain.OptionsLoadedEvent{WidgetID: "w"})
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a closed bus")
	}
}
