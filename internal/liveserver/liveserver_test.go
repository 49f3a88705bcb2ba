package liveserver

import (
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"classlift/internal/lift"
	"classlift/internal/liftfail"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wraps a Server's handler in an httptest.Server, since
// ListenAndServe's own addr-binding path is exercised separately and is
// awkward to race-free synchronize with in a unit test.
func newTestServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	s := New()
	ts := httptest.NewServer(handlerFor(s))
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events"
	return s, ts, wsURL
}

func TestBroadcastFailureReachesConnectedClient(t *testing.T) {
	s, _, wsURL := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	f := liftfail.StackUnderflow(3)
	require.NoError(t, s.BroadcastFailure("session-1", f))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), "StackUnderflow")
	assert.Contains(t, string(payload), "session-1")
}

func TestBroadcastBatchResultSummarizesOutcomes(t *testing.T) {
	s, _, wsURL := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	results := []lift.BatchResult{
		{Lifted: &lift.LiftedMethod{}},
		{Err: liftfail.StackOverflow(0)},
	}
	require.NoError(t, s.BroadcastBatchResult(results))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"total":2`)
	assert.Contains(t, string(payload), `"succeeded":1`)
	assert.Contains(t, string(payload), `"failed":1`)
}

func TestCloseDisconnectsClients(t *testing.T) {
	s, _, wsURL := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.ClientCount())
}

func TestListenAndServeBindsRealPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	s := New()
	errCh := s.ListenAndServe(addr)
	t.Cleanup(func() { s.Close() })

	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		c, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/events", nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, time.Second, 10*time.Millisecond)
	defer conn.Close()

	select {
	case err := <-errCh:
		t.Fatalf("server stopped early: %v", err)
	default:
	}
}
