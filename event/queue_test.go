package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventQueue(t *testing.T) {
	eq := NewEventQueue()
	got := make(chan interface{}, 4)

	id := eq.Subscribe(BlockMined, func(v interface{}) { got <- v })
	eq.Subscribe(PeerRegistered, func(v interface{}) { got <- "peer:" + v.(string) })

	eq.Notify(BlockMined, 2)
	select {
	case v := <-got:
		require.Equal(t, 2, v)
	case <-time.After(time.Second):
		t.Fatal("subscriber not notified")
	}

	require.NoError(t, eq.Unsubscribe(BlockMined, id))
	require.Error(t, eq.Unsubscribe(BlockMined, id))

	eq.Notify(BlockMined, 3)
	eq.Notify(PeerRegistered, "http://a:5000")
	select {
	case v := <-got:
		require.Equal(t, "peer:http://a:5000", v)
	case <-time.After(time.Second):
		t.Fatal("subscriber not notified")
	}
	select {
	case v := <-got:
		t.Fatalf("unexpected notification %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventTypeString(t *testing.T) {
	require.Equal(t, "blockMined", BlockMined.String())
	require.Equal(t, "unknown", EventType(200).String())
	require.Equal(t, 4, len(AllEventTypes()))
}
