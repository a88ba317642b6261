package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockpile/pkg/event"
)

func TestFireCallsListenersInOrder(t *testing.T) {
	t.Cleanup(event.Flush)

	var got []string
	event.Listen("stock.changed", func(_ context.Context, p any) { got = append(got, "a:"+p.(string)) })
	event.Listen("stock.changed", func(context.Context, any) { panic("listener bug") })
	event.Listen("stock.changed", func(_ context.Context, p any) { got = append(got, "b:"+p.(string)) })
	event.Listen("other", func(context.Context, any) { got = append(got, "other") })

	event.Fire(context.Background(), "stock.changed", "hm-100")
	assert.Equal(t, []string{"a:hm-100", "b:hm-100"}, got)
}

func TestFireWithoutListeners(t *testing.T) {
	t.Cleanup(event.Flush)
	assert.NotPanics(t, func() { event.Fire(context.Background(), "nobody", nil) })
}
