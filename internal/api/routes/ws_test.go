package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsFeedStreamsLifecycle(t *testing.T) {
	s := newServer(t, "")
	ts := httptest.NewServer(s.r)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/events"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	msgs := make(chan string, 16)
	go func() {
		defer close(msgs)
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				return
			}
			msgs <- string(b)
		}
	}()

	// the subscription is registered after the upgrade, so keep signing up
	// until the feed delivers
	assert.Eventually(t, func() bool {
		w := httptest.NewRecorder()
		s.r.ServeHTTP(w, signupRequest(t, signupForm{fields: baseFields("packaging")}))
		select {
		case m := <-msgs:
			return strings.Contains(m, `"type":"volunteer.submitted"`)
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)
}

func TestEventsFeedRequiresTokenWhenAuthEnabled(t *testing.T) {
	s := newServer(t, testSecret)
	ts := httptest.NewServer(s.r)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/events"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
