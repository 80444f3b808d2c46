package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHubDeliversToRegisteredConnection(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()
	conn := &Connection{UserID: userID, Send: make(chan []byte, sendBufferSize)}
	hub.Register(conn)
	waitForConnections(t, hub, 1)

	hub.Push(userID, map[string]string{"title": "Booking confirmed"})

	select {
	case data := <-conn.Send:
		if len(data) == 0 {
			t.Fatal("delivered payload is empty")
		}
	case <-time.After(time.Second):
		t.Fatal("payload was not delivered")
	}

	// Events for other users never reach this connection
	hub.Push(uuid.New(), map[string]string{"title": "Not yours"})
	select {
	case <-conn.Send:
		t.Fatal("received another user's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	conn := &Connection{UserID: uuid.New(), Send: make(chan []byte, sendBufferSize)}
	hub.Register(conn)
	waitForConnections(t, hub, 1)

	hub.Unregister(conn)
	waitForConnections(t, hub, 0)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected closed channel, got a payload")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on unregister")
	}
}

// Pushes race against connection churn for one user. Run with -race:
// delivery must hold the lock across its sends so unregister cannot
// close a channel mid-delivery.
func TestHubPushDuringConnectionChurn(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	userID := uuid.New()

	churnDone := make(chan struct{})
	go func() {
		defer close(churnDone)
		for i := 0; i < 200; i++ {
			conn := &Connection{UserID: userID, Send: make(chan []byte, 1)}
			hub.Register(conn)
			hub.Unregister(conn)
		}
	}()

	for i := 0; i < 2000; i++ {
		hub.Push(userID, map[string]int{"seq": i})
	}

	select {
	case <-churnDone:
	case <-time.After(5 * time.Second):
		t.Fatal("connection churn did not finish")
	}

	if got := hub.ConnectionCount(); got != 0 {
		t.Fatalf("connection count = %d, want 0 after churn", got)
	}
}

// waitForConnections blocks until the hub's register/unregister loop has
// settled at n local connections
func waitForConnections(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ConnectionCount() == n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("connection count = %d, want %d", hub.ConnectionCount(), n)
}
