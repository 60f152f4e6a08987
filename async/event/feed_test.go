package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFeed_SendDeliversToAllSubscribers(t *testing.T) {
	var feed Feed[int]
	sub1 := feed.Subscribe(1)
	sub2 := feed.Subscribe(1)

	require.Equal(t, 2, feed.Send(7))

	select {
	case v := <-sub1.Channel():
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sub1")
	}
	select {
	case v := <-sub2.Channel():
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sub2")
	}
}

func TestFeed_UnsubscribeStopsDelivery(t *testing.T) {
	var feed Feed[int]
	sub := feed.Subscribe(1)
	sub.Unsubscribe()

	require.Equal(t, 0, feed.Send(1))

	select {
	case _, ok := <-sub.Err():
		require.False(t, ok, "err channel should be closed, not sent on")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for err channel to close")
	}
}

func TestFeed_SlowSubscriberDoesNotBlockSend(t *testing.T) {
	var feed Feed[int]
	slow := feed.Subscribe(0) // unbuffered, nobody reads from it
	fast := feed.Subscribe(1)

	require.Equal(t, 1, feed.Send(42))
	select {
	case <-slow.Channel():
		t.Fatal("slow subscriber should not have received a value")
	default:
	}
	require.Equal(t, 42, <-fast.Channel())
}

func TestFeed_SubscriberCount(t *testing.T) {
	var feed Feed[string]
	require.Equal(t, 0, feed.SubscriberCount())
	sub := feed.Subscribe(1)
	require.Equal(t, 1, feed.SubscriberCount())
	sub.Unsubscribe()
	require.Equal(t, 0, feed.SubscriberCount())
}
