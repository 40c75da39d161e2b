package mux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"piratepoker-server/internal/jwt"
	"piratepoker-server/internal/rng"
	"piratepoker-server/internal/util"
	"piratepoker-server/pkg/engine"
	"piratepoker-server/pkg/notify"
	"piratepoker-server/pkg/room"
	"piratepoker-server/pkg/store/memory"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viewResponse mirrors engine.TableView for decoding
type viewResponse struct {
	engine.TableSummary
	Players []*engine.SeatView `json:"players"`
	Actions []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"actions"`
}

func (v *viewResponse) actionIDs() []string {
	ids := make([]string, len(v.Actions))
	for i, a := range v.Actions {
		ids[i] = a.ID
	}
	return ids
}

func setupJWT(t *testing.T) {
	t.Helper()
	require.NoError(t, jwt.LoadKeysFromFiles("../jwt/testdata/public.pem", "../jwt/testdata/private.key"))
}

// newServer returns a test server backed by an in-memory engine
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	setupJWT(t)

	logger := logrus.StandardLogger()
	n := notify.NewLocal(logger)
	e := engine.New(logger, memory.New(), engine.Options{
		StartingDoubloons: 1000,
		Generator:         rng.NewSeeded(11),
		Notifier:          n,
	})

	ctx, cancel := context.WithCancel(context.Background())
	pitBoss := room.NewPitBoss(logger, e, n)
	pitBoss.StartShift(ctx)

	ts := httptest.NewServer(NewMux(logger, "v1.2.3", e, pitBoss))
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})

	return ts
}

// player returns a fresh identity and a token signed for it
func player(t *testing.T) (string, string) {
	t.Helper()

	identity := util.RandomIdentity()
	token, err := jwt.Sign(identity)
	require.NoError(t, err)

	return identity, token
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	if len(signedJWT) > 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signedJWT[0]))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := io.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return resp
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
		}
	}

	return resp
}

func assertRequest(t *testing.T, ts *httptest.Server, method, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case nil:
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return nil
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return nil
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()
	return assertRequest(t, ts, http.MethodGet, path, nil, respObj, statusCode, signedJWT...)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()
	if payload == nil {
		payload = struct{}{}
	}
	return assertRequest(t, ts, http.MethodPost, path, payload, respObj, statusCode, signedJWT...)
}

func assertDelete(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()
	return assertRequest(t, ts, http.MethodDelete, path, nil, respObj, statusCode, signedJWT...)
}
