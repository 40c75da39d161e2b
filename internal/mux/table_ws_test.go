package mux

import (
	"net/http"
	"net/http/httptest"
	"piratepoker-server/pkg/engine"
	"piratepoker-server/pkg/room"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTable(t *testing.T, ts *httptest.Server, tableID, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/table/" + tableID + "/ws?access_token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

// readKey reads messages until one with key arrives
func readKey(t *testing.T, conn *websocket.Conn, key string) *room.Response {
	t.Helper()

	for i := 0; i < 10; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second * 2))

		var resp room.Response
		if err := conn.ReadJSON(&resp); err != nil {
			require.NoError(t, err)
		}

		if resp.Key == key {
			return &resp
		}
	}

	require.Failf(t, "no message", "never received %s", key)
	return nil
}

func Test_getTableUUIDWS(t *testing.T) {
	ts := newServer(t)
	_, j := player(t)
	_, j2 := player(t)

	var tbl engine.TableSummary
	assertPost(t, ts, "/table", postTablePayload{Name: "Fortune", MinBet: 10}, &tbl, 201, j)

	conn, _, err := dialTable(t, ts, tbl.ID, j2)
	require.NoError(t, err)
	defer conn.Close()

	state := readKey(t, conn, "tableState")
	data, ok := state.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, tbl.ID, data["id"])

	require.NoError(t, conn.WriteJSON(room.PayloadIn{Action: "join", Context: "join-1"}))
	status := readKey(t, conn, "status")
	assert.Equal(t, "OK", status.Value)
	assert.Equal(t, "join-1", status.Context)

	require.NoError(t, conn.WriteJSON(room.PayloadIn{Action: "plunder", Context: "bad-1"}))
	errMsg := readKey(t, conn, "error")
	assert.Equal(t, "unknown action: plunder", errMsg.Value)
	assert.Equal(t, "invalid-argument", errMsg.Data)
	assert.Equal(t, "bad-1", errMsg.Context)

	// changes made over HTTP are pushed to the socket
	assertPost(t, ts, "/table/"+tbl.ID+"/ready", postTableUUIDReadyPayload{Ready: true}, nil, 200, j2)
	state = readKey(t, conn, "tableState")
	data = state.Data.(map[string]interface{})
	players := data["players"].([]interface{})
	assert.Equal(t, 2, len(players))
}

func Test_getTableUUIDWS_errors(t *testing.T) {
	ts := newServer(t)
	_, j := player(t)

	_, resp, err := dialTable(t, ts, "00000000-0000-0000-0000-000000000000", j)
	assert.Error(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	var tbl engine.TableSummary
	assertPost(t, ts, "/table", postTablePayload{Name: "Fortune", MinBet: 10}, &tbl, 201, j)

	_, resp, err = dialTable(t, ts, tbl.ID, "garbage")
	assert.Error(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
