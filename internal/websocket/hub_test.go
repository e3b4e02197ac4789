package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestNotifyReachesOnlyNamespaceWatchers(t *testing.T) {
	t.Parallel()

	h := NewHub()
	go h.Run()

	sub := &Client{Hub: h, Send: make(chan []byte, 4), Namespace: "user-a"}
	other := &Client{Hub: h, Send: make(chan []byte, 4), Namespace: "user-b"}
	h.Register <- sub
	h.Register <- other

	h.Notify("user-a", "document.saved", map[string]string{"path": "notes/todo.md"})

	select {
	case data := <-sub.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Action != "document.saved" {
			t.Fatalf("action = %q, want document.saved", msg.Action)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the broadcast")
	}

	select {
	case data := <-other.Send:
		t.Fatalf("client watching another namespace received %s", data)
	default:
	}
}

func TestNotifyDuringClientChurn(t *testing.T) {
	t.Parallel()

	h := NewHub()
	go h.Run()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < 200; i++ {
			c := &Client{Hub: h, Send: make(chan []byte, 1), Namespace: "user-a"}
			h.Register <- c
			h.Unregister <- c
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				h.Notify("user-a", "document.saved", nil)
			}
		}
	}()
	wg.Wait()
}
