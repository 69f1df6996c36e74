package feed_test

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/blogql-go/feed"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := feed.NewBroadcaster()
	id1, ch1 := b.Subscribe()
	id2, ch2 := b.Subscribe()
	defer b.Unsubscribe(id1)
	defer b.Unsubscribe(id2)

	b.Publish("post.created", map[string]string{"title": "A fine title"})

	for _, ch := range []<-chan feed.Event{ch1, ch2} {
		select {
		case e := <-ch:
			assert.Equal(t, "post.created", e.Name)
			assert.Contains(t, e.Data, "A fine title")
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := feed.NewBroadcaster()
	id, ch := b.Subscribe()

	b.Unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice is harmless.
	b.Unsubscribe(id)
}

func TestSlowSubscriberIsSkipped(t *testing.T) {
	b := feed.NewBroadcaster()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	// Fill the subscriber's buffer; further publishes must not block.
	for i := 0; i < 40; i++ {
		b.Publish("post.created", map[string]int{"n": i})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 32, received, "the buffer bounds what a slow client sees")
}

func TestHandleStream(t *testing.T) {
	b := feed.NewBroadcaster()
	srv := httptest.NewServer(b.HandleStream())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Publish only after the subscription has landed.
	require.Eventually(t, func() bool {
		return b.Subscribers() == 1
	}, time.Second, 10*time.Millisecond)
	b.Publish("post.created", map[string]string{"title": "A fine title"})

	// Guard against a stuck read.
	timeout := time.AfterFunc(2*time.Second, func() { resp.Body.Close() })
	defer timeout.Stop()

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if trimmed := strings.TrimRight(line, "\n"); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	assert.Equal(t, "event: post.created", lines[0])
	assert.Equal(t, `data: {"title":"A fine title"}`, lines[1])

	// Disconnecting deregisters the client.
	resp.Body.Close()
	require.Eventually(t, func() bool {
		return b.Subscribers() == 0
	}, time.Second, 10*time.Millisecond)
}
