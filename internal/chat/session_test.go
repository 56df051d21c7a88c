package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/internal/models"
)

// newSessionServer serves real websocket sessions over httptest, with room
// and user taken from the query string.
func newSessionServer(t *testing.T, svc *Service) *httptest.Server {
	t.Helper()
	h := NewSessionHandler(svc, zerolog.Nop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, r.URL.Query().Get("room"), r.URL.Query().Get("user"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialSession(t *testing.T, srv *httptest.Server, roomID, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?room=" + roomID + "&user=" + userID
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, ws.ReadJSON(&ev))
	return ev
}

func TestSessionHistoryThenLiveSend(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	_, err := f.svc.Post(context.Background(), "room1", "t1", "earlier")
	require.NoError(t, err)

	srv := newSessionServer(t, f.svc)
	ws := dialSession(t, srv, "room1", "s1")

	ev := readEvent(t, ws)
	require.Equal(t, EventHistory, ev.Type)
	require.Len(t, ev.Messages, 1)
	assert.Equal(t, "earlier", ev.Messages[0].Content)

	require.NoError(t, ws.WriteJSON(inbound{Action: "send", Content: "question"}))
	ev = readEvent(t, ws)
	require.Equal(t, EventMessage, ev.Type)
	assert.Equal(t, "question", ev.Message.Content)
	assert.Equal(t, "s1", ev.Message.SenderID)
}

func TestSessionNonMemberReceivesRejection(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	srv := newSessionServer(t, f.svc)

	// the rejection frame must arrive over the wire before the close
	ws := dialSession(t, srv, "room1", "stranger")
	ev := readEvent(t, ws)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, http.StatusForbidden, ev.Code)
	assert.Equal(t, "not a member of this classroom", ev.Detail)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var next Event
	assert.Error(t, ws.ReadJSON(&next)) // server closed after the rejection
}

func TestSessionRoomFullReceivesDistinctRejection(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	reg := NewRegistry(1, zerolog.Nop())
	svc := NewService(f.store, f.resolver, reg, 50, zerolog.Nop())
	srv := newSessionServer(t, svc)

	first := dialSession(t, srv, "room1", "s1")
	require.Equal(t, EventHistory, readEvent(t, first).Type)

	second := dialSession(t, srv, "room1", "t1")
	ev := readEvent(t, second)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, http.StatusServiceUnavailable, ev.Code)
	assert.NotEqual(t, "not a member of this classroom", ev.Detail)
}

func TestSessionEvictionDeliversRoomClosed(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	srv := newSessionServer(t, f.svc)

	ws := dialSession(t, srv, "room1", "s1")
	require.Equal(t, EventHistory, readEvent(t, ws).Type)
	require.Eventually(t, func() bool {
		return f.registry.Count("room1") == 1
	}, time.Second, 10*time.Millisecond)

	f.svc.Evict("room1")

	ev := readEvent(t, ws)
	assert.Equal(t, EventRoomClosed, ev.Type)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var next Event
	assert.Error(t, ws.ReadJSON(&next)) // connection torn down after the farewell
}

func TestSessionPolicyRejectionFeedback(t *testing.T) {
	f := newFixture(models.ChatPolicyAnnouncement)
	srv := newSessionServer(t, f.svc)

	ws := dialSession(t, srv, "room1", "s1")
	require.Equal(t, EventHistory, readEvent(t, ws).Type)

	require.NoError(t, ws.WriteJSON(inbound{Action: "send", Content: "hello"}))
	ev := readEvent(t, ws)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, http.StatusForbidden, ev.Code)
}

func TestSessionMissingUserRejectedBeforeUpgrade(t *testing.T) {
	f := newFixture(models.ChatPolicyOpen)
	srv := newSessionServer(t, f.svc)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?room=room1&user="
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Nil(t, ws)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
