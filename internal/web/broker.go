package web

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/PauloHFS/avala/internal/metrics"
)

const maxClients = 256

// Broker fans server-sent events out to every connected dashboard.
type Broker struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
	stop    chan struct{}
	stopped bool
}

func NewBroker() *Broker {
	return &Broker{
		clients: make(map[chan string]struct{}),
		stop:    make(chan struct{}),
	}
}

// Broadcast sends an event to everyone. Slow clients miss the message.
func (b *Broker) Broadcast(event, data string) {
	msg := fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (b *Broker) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Shutdown disconnects every client.
func (b *Broker) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.stopped {
		b.stopped = true
		close(b.stop)
	}
}

func (b *Broker) subscribe() (chan string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return nil, fmt.Errorf("broker stopped")
	}
	if len(b.clients) >= maxClients {
		return nil, fmt.Errorf("max connections reached")
	}
	ch := make(chan string, 10) // Buffer para evitar bloqueio
	b.clients[ch] = struct{}{}
	metrics.SSEClients.Inc()
	return ch, nil
}

func (b *Broker) unsubscribe(ch chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[ch]; ok {
		delete(b.clients, ch)
		metrics.SSEClients.Dec()
	}
}

func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	ch, err := b.subscribe()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer b.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprint(w, ": ok\n\n")
	flusher.Flush()

	for {
		select {
		case msg := <-ch:
			fmt.Fprint(w, msg)
			flusher.Flush()
		case <-b.stop:
			return
		case <-r.Context().Done():
			return
		}
	}
}
