package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func relayServer(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialRelay(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	var env Envelope
	err := conn.ReadJSON(&env)
	require.Error(t, err, "expected no message, got %+v", env)
}

func TestFanout_SenderExcluded(t *testing.T) {
	_, url := relayServer(t)
	a := dialRelay(t, url)
	b := dialRelay(t, url)
	c := dialRelay(t, url)
	// 等三条连接都挂进广播组
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, a.WriteJSON(map[string]any{"action": "new_post"}))

	// 其余两端收到统一包装的事件
	for _, conn := range []*websocket.Conn{b, c} {
		env := readEnvelope(t, conn)
		require.Equal(t, "update", env.Type)
		data, ok := env.Data.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "new_post", data["action"])
	}

	// 发送方自己不回显
	expectSilence(t, a)
}

func TestServerPublish_ReachesAll(t *testing.T) {
	hub, url := relayServer(t)
	a := dialRelay(t, url)
	b := dialRelay(t, url)
	time.Sleep(100 * time.Millisecond)

	hub.Publish(map[string]any{"action": "new_comment", "postId": "p1"})

	for _, conn := range []*websocket.Conn{a, b} {
		env := readEnvelope(t, conn)
		require.Equal(t, "update", env.Type)
		data := env.Data.(map[string]any)
		require.Equal(t, "new_comment", data["action"])
		require.Equal(t, "p1", data["postId"])
	}
}

func TestNonJSONDropped(t *testing.T) {
	_, url := relayServer(t)
	a := dialRelay(t, url)
	b := dialRelay(t, url)
	time.Sleep(100 * time.Millisecond)

	// 非 JSON 入站消息直接丢弃，不广播
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("not json")))
	expectSilence(t, b)

	// 连接还活着，后续合法消息照常转播
	require.NoError(t, a.WriteJSON(map[string]any{"action": "new_post"}))
	env := readEnvelope(t, b)
	require.Equal(t, "update", env.Type)
}

func TestEnvelopeWireShape(t *testing.T) {
	hub, url := relayServer(t)
	a := dialRelay(t, url)
	time.Sleep(100 * time.Millisecond)

	hub.Publish(map[string]any{"action": "new_post"})

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := a.ReadMessage()
	require.NoError(t, err)

	// 线上形态固定为 {"type":"update","data":...}
	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wire))
	require.Contains(t, wire, "type")
	require.Contains(t, wire, "data")
	require.JSONEq(t, `"update"`, string(wire["type"]))
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, url := relayServer(t)
	a := dialRelay(t, url)
	b := dialRelay(t, url)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, a.Close())
	time.Sleep(100 * time.Millisecond)

	// 掉线端不再挡路，在线端照常收事件
	hub.Publish(map[string]any{"action": "new_post"})
	env := readEnvelope(t, b)
	require.Equal(t, "update", env.Type)
}
