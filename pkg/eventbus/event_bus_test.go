package eventbus

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type created struct {
	name string
}

type deleted struct{}

func bufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestPublisher_NoMatchingSubscribersIsLogged(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	bus := NewEventPublisher(log)
	bus.Subscribe(func(e *created) {
		t.Error("should not be called")
	})

	bus.Publish(&deleted{})

	require.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublisher_DeliversToMatchingHandler(t *testing.T) {
	bus := NewEventPublisher(nil)
	var got string
	bus.Subscribe(func(e *created) { got = e.name })

	bus.Publish(&created{name: "Jane Doe"})

	require.Equal(t, "Jane Doe", got)
}

func TestPublisher_Unsubscribe(t *testing.T) {
	bus := NewEventPublisher(nil)
	calls := 0
	unsubscribe := bus.Subscribe(func(e *created) { calls++ })
	bus.Subscribe(func(e *deleted) {})
	require.Equal(t, 2, bus.SubscribersCount())

	unsubscribe()
	unsubscribe()
	bus.Publish(&created{})

	require.Zero(t, calls)
	require.Equal(t, 1, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(e *created) {}, []any{&created{}}))
	require.False(t, MatchSignature(func(e *created) {}, []any{&deleted{}}))
	require.False(t, MatchSignature(func(e *created) {}, []any{}))
	require.False(t, MatchSignature(func(e *created) {}, []any{&created{}, &created{}}))
	require.True(t, MatchSignature(func(ctx context.Context) {}, []any{context.Background()}))
	require.True(t, MatchSignature(func(e *created) {}, []any{nil}))
	require.False(t, MatchSignature("not a func", []any{}))
}

func TestPublisher_PanicRecovery(t *testing.T) {
	t.Run("panic is logged and remaining handlers run", func(t *testing.T) {
		log, buf := bufferedLogger(logrus.WarnLevel)
		bus := NewEventPublisher(log)

		called := false
		bus.Subscribe(func(e *created) { panic("intentional panic") })
		bus.Subscribe(func(e *created) { called = true })

		bus.Publish(&created{name: "x"})

		require.True(t, called)
		require.Contains(t, buf.String(), "panicked")
		require.Contains(t, buf.String(), "intentional panic")
		require.NotContains(t, buf.String(), "no matching subscribers")
	})

	t.Run("all handlers panicking counts as unhandled", func(t *testing.T) {
		log, buf := bufferedLogger(logrus.WarnLevel)
		bus := NewEventPublisher(log)
		bus.Subscribe(func(e *created) { panic("always") })

		bus.Publish(&created{})

		require.Contains(t, buf.String(), "no matching subscribers")
	})
}

func TestPublisher_PublishE(t *testing.T) {
	t.Run("no subscribers", func(t *testing.T) {
		err := NewEventPublisher(nil).PublishE(&created{})
		require.ErrorIs(t, err, ErrNoSubscribers)
	})

	t.Run("joins handler errors", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		err1 := errors.New("err1")
		err2 := errors.New("err2")
		bus.Subscribe(func(e *created) error { return err1 })
		bus.Subscribe(func(e *created) error { return err2 })
		bus.Subscribe(func(e *created) error { return nil })

		err := bus.PublishE(&created{})
		require.ErrorIs(t, err, err1)
		require.ErrorIs(t, err, err2)
	})

	t.Run("panic surfaces as error", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		called := false
		bus.Subscribe(func(e *created) error { panic("boom") })
		bus.Subscribe(func(e *created) error { called = true; return nil })

		require.Error(t, bus.PublishE(&created{}))
		require.True(t, called)
	})

	t.Run("invalid return signature", func(t *testing.T) {
		bus := NewEventPublisher(nil)
		bus.Subscribe(func(e *created) int { return 1 })

		require.ErrorIs(t, bus.PublishE(&created{}), ErrInvalidHandlerReturn)
	})
}
