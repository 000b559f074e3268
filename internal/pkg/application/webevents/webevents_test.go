package webevents

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestThatPublishedEventsReachListeners(t *testing.T) {
	is := is.New(t)

	we := New()
	defer we.Shutdown()

	srv := httptest.NewServer(we)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		// the listener registers asynchronously
		for i := 0; i < 50; i++ {
			_ = we.Publish("ping", map[string]string{"type": "ping"})
			time.Sleep(20 * time.Millisecond)
		}
	}()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	is.Equal(resp.Header.Get("Content-Type"), "text/event-stream")

	scanner := bufio.NewScanner(resp.Body)
	found := false
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "event: ping") {
			found = true
			break
		}
	}

	is.True(found)
}

func TestThatPublishRejectsUnmarshalableData(t *testing.T) {
	is := is.New(t)

	we := New()
	defer we.Shutdown()

	err := we.Publish("bad", make(chan int))
	is.True(err != nil)
}
