package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHubBroadcast(t *testing.T) {
	hub := NewEventHub()
	defer hub.Close()

	a := hub.Register(1)
	b := hub.Register(2)
	defer hub.Unregister(a)
	defer hub.Unregister(b)

	hub.Broadcast("chat", map[string]string{"content": "hello"})

	for _, client := range []*EventClient{a, b} {
		select {
		case msg := <-client.Channel:
			assert.Contains(t, msg, "event: chat")
			assert.Contains(t, msg, `"content":"hello"`)
		default:
			t.Fatal("expected a broadcast message")
		}
	}
}

func TestEventHubSendToUser(t *testing.T) {
	hub := NewEventHub()
	defer hub.Close()

	a := hub.Register(1)
	b := hub.Register(2)
	defer hub.Unregister(a)
	defer hub.Unregister(b)

	hub.SendToUser(1, "notification", map[string]string{"title": "hi"})

	select {
	case msg := <-a.Channel:
		assert.Contains(t, msg, "event: notification")
	default:
		t.Fatal("owner should receive the notification")
	}

	select {
	case msg := <-b.Channel:
		t.Fatalf("other users must not receive it, got %q", msg)
	default:
	}
}

func TestEventHubUnregister(t *testing.T) {
	hub := NewEventHub()
	defer hub.Close()

	client := hub.Register(1)
	require.Equal(t, 1, hub.ClientCount())

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-client.Channel
	assert.False(t, open, "channel must be closed on unregister")

	// Double unregister is safe
	hub.Unregister(client)
}

func TestEventHubDropsWhenClientIsSlow(t *testing.T) {
	hub := NewEventHub()
	defer hub.Close()

	client := hub.Register(1)
	defer hub.Unregister(client)

	// Fill the buffer and keep going; sends must not block
	for i := 0; i < 100; i++ {
		hub.Broadcast("chat", map[string]int{"n": i})
	}
	assert.Equal(t, 1, hub.ClientCount())
}
