package mux

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_bearerToken(t *testing.T) {
	req := func(header, query string) *http.Request {
		r, _ := http.NewRequest(http.MethodGet, "https://example.domain/"+query, nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		return r
	}

	token, present := bearerToken(req("", ""))
	assert.False(t, present)
	assert.Equal(t, "", token)

	token, present = bearerToken(req("Bearer abc", ""))
	assert.True(t, present)
	assert.Equal(t, "abc", token)

	token, present = bearerToken(req("bearer abc", ""))
	assert.True(t, present)
	assert.Equal(t, "abc", token)

	token, present = bearerToken(req("Basic abc", ""))
	assert.True(t, present)
	assert.Equal(t, "", token)

	token, present = bearerToken(req("", "?access_token=xyz"))
	assert.True(t, present)
	assert.Equal(t, "xyz", token)
}

func TestAuthentication(t *testing.T) {
	ts := newServer(t)
	identity, j := player(t)

	// no token
	var errResp errorResponse
	assertGet(t, ts, "/player", &errResp, 401)
	assert.Equal(t, 401, errResp.StatusCode)

	// bad token
	assertGet(t, ts, "/player", nil, 401, "not-a-token")
	assertGet(t, ts, "/table", nil, 401, "not-a-token")

	// anonymous routes
	assertGet(t, ts, "/table", nil, 200)

	resp := assertGet(t, ts, "/player", nil, 200, j)
	if assert.NotNil(t, resp) {
		assert.Equal(t, identity, resp.Header.Get(IdentityHeader))
	}

	// token as a query parameter
	assertGet(t, ts, "/player?access_token="+j, nil, 200)
}

func TestNotFound(t *testing.T) {
	ts := newServer(t)
	_, j := player(t)

	assertGet(t, ts, "/nope", nil, 404, j)
	assertGet(t, ts, "/table/not-a-uuid", nil, 404, j)
}
