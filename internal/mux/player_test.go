package mux

import (
	"piratepoker-server/pkg/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_getPlayer(t *testing.T) {
	ts := newServer(t)
	identity, j := player(t)

	var p model.Player
	assertGet(t, ts, "/player", &p, 200, j)
	assert.Equal(t, model.Identity(identity), p.Identity)
	assert.Equal(t, 1000, p.Doubloons)
	assert.NotEmpty(t, p.Alias)

	// the profile is created once
	var again model.Player
	assertGet(t, ts, "/player", &again, 200, j)
	assert.Equal(t, p.Alias, again.Alias)
}

func Test_postPlayerAlias(t *testing.T) {
	ts := newServer(t)
	_, j := player(t)

	var p model.Player
	assertPost(t, ts, "/player/alias", postPlayerAliasPayload{Alias: "  Calico Jack  "}, &p, 200, j)
	assert.Equal(t, "Calico Jack", p.Alias)

	var errResp errorResponse
	assertPost(t, ts, "/player/alias", postPlayerAliasPayload{Alias: " "}, &errResp, 400, j)
	assert.Equal(t, "name must be 1-40 characters", errResp.Message)
	assert.Equal(t, "invalid-argument", errResp.Kind)

	errResp = errorResponse{}
	assertPost(t, ts, "/player/alias", postPlayerAliasPayload{Alias: strings.Repeat("A", 41)}, &errResp, 400, j)
	assert.Equal(t, "invalid-argument", errResp.Kind)

	assertPost(t, ts, "/player/alias", postPlayerAliasPayload{Alias: "Anne Bonny"}, nil, 401)
}

func Test_postPlayerDoubloons(t *testing.T) {
	ts := newServer(t)
	_, j := player(t)

	var p model.Player
	assertPost(t, ts, "/player/doubloons", postPlayerDoubloonsPayload{Amount: 250}, &p, 200, j)
	assert.Equal(t, 1250, p.Doubloons)

	var errResp errorResponse
	assertPost(t, ts, "/player/doubloons", postPlayerDoubloonsPayload{Amount: 0}, &errResp, 400, j)
	assert.Equal(t, "amount is not valid", errResp.Message)

	assertPost(t, ts, "/player/doubloons", postPlayerDoubloonsPayload{Amount: -10}, nil, 400, j)

	assertGet(t, ts, "/player", &p, 200, j)
	assert.Equal(t, 1250, p.Doubloons)
}
