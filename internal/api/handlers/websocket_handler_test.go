package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	ws "github.com/notedeck/notedeck-be/internal/websocket"
)

func (s *testServer) dialWS(query, token string) *gorillaws.Conn {
	s.t.Helper()

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/api/v1/ws" + query
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := gorillaws.DefaultDialer.Dial(url, header)
	require.NoError(s.t, err)
	if resp != nil {
		resp.Body.Close()
	}
	s.t.Cleanup(func() { conn.Close() })

	// The subscription is registered after the handshake completes; give the
	// hub a moment to process it before the test triggers a broadcast.
	time.Sleep(100 * time.Millisecond)
	return conn
}

func readBroadcast(t *testing.T, conn *gorillaws.Conn) ws.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg ws.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// requireNoBroadcast asserts nothing arrives on conn. The read deadline
// poisons the connection for gorilla, so only call this as conn's last read.
func requireNoBroadcast(t *testing.T, conn *gorillaws.Conn) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestDocumentBroadcasts(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	user, token := srv.registerAndLogin("alice", "s3cret")
	conn := srv.dialWS("?namespace="+user.ID, token)
	publicConn := srv.dialWS("", "")

	base := "/api/v1/docs/" + user.ID

	// One save, one document.saved message.
	status := srv.do(http.MethodPost, base+"/notes/todo.md", token, map[string]string{"content": "# Todo"}, nil)
	require.Equal(t, http.StatusOK, status)

	msg := readBroadcast(t, conn)
	require.Equal(t, "document.saved", msg.Action)

	// A rejected save broadcasts nothing; if it did, the next read would see
	// a stray document.saved instead of the rename below.
	status = srv.do(http.MethodPost, base+"/notes/todo.md", token, map[string]string{"content": ""}, nil)
	require.Equal(t, http.StatusBadRequest, status)

	// Rename and delete each announce themselves once.
	status = srv.do(http.MethodPost, base+"/rename", token, map[string]string{
		"oldPath": "notes/todo.md",
		"newPath": "notes/done.md",
	}, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "document.renamed", readBroadcast(t, conn).Action)

	status = srv.do(http.MethodDelete, base+"/notes/done.md", token, nil, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "document.deleted", readBroadcast(t, conn).Action)

	// Nothing further for this subscriber, and none of it leaked to clients
	// watching the public tree.
	requireNoBroadcast(t, conn)
	requireNoBroadcast(t, publicConn)
}

func TestWebSocketAccessControl(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	alice, _ := srv.registerAndLogin("alice", "s3cret")
	_, bobToken := srv.registerAndLogin("bob", "hunter2")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws?namespace=" + alice.ID

	// Anonymous private subscriptions are refused before the upgrade.
	_, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+bobToken)
	_, resp, err = gorillaws.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
