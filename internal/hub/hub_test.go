package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repomanage/internal/service"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h, cancel
}

// readData returns the next "data:" line from an SSE stream
func readData(r *bufio.Reader) (string, error) {
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "data: ")), nil
		}
	}
}

func TestHubRelaysBusEvents(t *testing.T) {
	h, _ := startHub(t)
	bus := service.NewEventBus()

	relayCtx, stopRelay := context.WithCancel(context.Background())
	defer stopRelay()
	go func() { _ = h.Relay(relayCtx, bus) }()

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// Relay subscribes asynchronously; publish until the event arrives
	reader := bufio.NewReader(resp.Body)
	got := make(chan string, 1)
	go func() {
		if data, err := readData(reader); err == nil {
			got <- data
		}
	}()

	deadline := time.After(2 * time.Second)
	for {
		bus.Publish(service.Event{Type: service.EventRepoCreated, Payload: map[string]int{"id": 0}})
		select {
		case data := <-got:
			assert.JSONEq(t, `{"type":"repo_created","payload":{"id":0}}`, data)
			return
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("event never reached the SSE client")
		}
	}
}

func TestHubReleasesClientsOnStop(t *testing.T) {
	h, cancel := startHub(t)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}
