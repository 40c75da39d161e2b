package mux

import (
	"piratepoker-server/pkg/engine"
	"piratepoker-server/pkg/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_postTable(t *testing.T) {
	ts := newServer(t)
	identity, j := player(t)

	var tbl engine.TableSummary
	assertPost(t, ts, "/table", postTablePayload{Name: "Black Pearl", MinBet: 20, MaxPlayers: 4}, &tbl, 201, j)
	assert.NotEmpty(t, tbl.ID)
	assert.Equal(t, "Black Pearl", tbl.Name)
	assert.Equal(t, model.TableStatusWaiting, tbl.Status)
	assert.Equal(t, model.Identity(identity), tbl.Host)
	assert.Equal(t, 20, tbl.MinBet)
	assert.Equal(t, 4, tbl.MaxPlayers)

	var errResp errorResponse
	assertPost(t, ts, "/table", postTablePayload{Name: "", MinBet: 20}, &errResp, 400, j)
	assert.Equal(t, "name must be 1-40 characters", errResp.Message)

	errResp = errorResponse{}
	assertPost(t, ts, "/table", postTablePayload{Name: "Cheap", MinBet: 0}, &errResp, 400, j)
	assert.Equal(t, "amount is not valid", errResp.Message)

	assertPost(t, ts, "/table", postTablePayload{Name: "Anonymous", MinBet: 20}, nil, 401)
}

func Test_getTable(t *testing.T) {
	ts := newServer(t)
	_, j := player(t)

	var tbl1, tbl2 engine.TableSummary
	assertPost(t, ts, "/table", postTablePayload{Name: "Table 1", MinBet: 10}, &tbl1, 201, j)
	assertPost(t, ts, "/table", postTablePayload{Name: "Table 2", MinBet: 10}, &tbl2, 201, j)

	var tables []*engine.TableSummary
	assertGet(t, ts, "/table", &tables, 200)
	if assert.Equal(t, 2, len(tables)) {
		ids := []string{tables[0].ID, tables[1].ID}
		assert.ElementsMatch(t, []string{tbl1.ID, tbl2.ID}, ids)
	}
}

func Test_getTableUUID(t *testing.T) {
	ts := newServer(t)
	host, j := player(t)

	var tbl engine.TableSummary
	assertPost(t, ts, "/table", postTablePayload{Name: "Revenge", MinBet: 10}, &tbl, 201, j)

	var view viewResponse
	assertGet(t, ts, "/table/"+tbl.ID, &view, 200)
	assert.Equal(t, tbl.ID, view.ID)
	if assert.Equal(t, 1, len(view.Players)) {
		assert.Equal(t, model.Identity(host), view.Players[0].Identity)
		assert.Equal(t, 0, view.Players[0].Index)
	}
	assert.Empty(t, view.Actions)

	var errResp errorResponse
	assertGet(t, ts, "/table/00000000-0000-0000-0000-000000000000", &errResp, 404)
	assert.Equal(t, "table not found", errResp.Message)
	assert.Equal(t, "not-found", errResp.Kind)
}

func Test_getTableCurrent(t *testing.T) {
	ts := newServer(t)
	_, j := player(t)
	_, j2 := player(t)

	assertGet(t, ts, "/table/current", nil, 204, j)

	var tbl engine.TableSummary
	assertPost(t, ts, "/table", postTablePayload{Name: "Fancy", MinBet: 10}, &tbl, 201, j)

	var current engine.TableSummary
	assertGet(t, ts, "/table/current", &current, 200, j)
	assert.Equal(t, tbl.ID, current.ID)

	assertGet(t, ts, "/table/current", nil, 204, j2)
	assertGet(t, ts, "/table/current", nil, 401)
}

func Test_tableSeat(t *testing.T) {
	ts := newServer(t)
	host, j := player(t)
	guest, j2 := player(t)

	var tbl engine.TableSummary
	assertPost(t, ts, "/table", postTablePayload{Name: "Queen Anne", MinBet: 10, MaxPlayers: 2}, &tbl, 201, j)
	path := "/table/" + tbl.ID

	var seat model.Seat
	assertPost(t, ts, path+"/seat", nil, &seat, 201, j2)
	assert.Equal(t, model.Identity(guest), seat.Identity)
	assert.Equal(t, 1, seat.Index)

	var errResp errorResponse
	assertPost(t, ts, path+"/seat", nil, &errResp, 422, j2)
	assert.Equal(t, "table is full", errResp.Message)

	// guest leaves, then can come back
	assertDelete(t, ts, path+"/seat", nil, 200, j2)
	errResp = errorResponse{}
	assertDelete(t, ts, path+"/seat", &errResp, 404, j2)
	assert.Equal(t, "not seated at this table", errResp.Message)

	errResp = errorResponse{}
	assertPost(t, ts, path+"/seat", nil, &errResp, 412, j)
	assert.Equal(t, "already seated at this table", errResp.Message)

	assertPost(t, ts, path+"/seat", nil, &seat, 201, j2)
	assert.Equal(t, 1, seat.Index)

	// the host leaves a waiting table, the guest becomes the host
	assertDelete(t, ts, path+"/seat", nil, 200, j)
	var view viewResponse
	assertGet(t, ts, path, &view, 200)
	assert.Equal(t, model.Identity(guest), view.Host)
	assert.NotEqual(t, model.Identity(host), view.Host)

	// the last seat leaving removes the table
	assertDelete(t, ts, path+"/seat", nil, 200, j2)
	assertGet(t, ts, path, nil, 404)
}

func Test_tableHand(t *testing.T) {
	ts := newServer(t)
	host, j := player(t)
	_, j2 := player(t)

	var tbl engine.TableSummary
	assertPost(t, ts, "/table", postTablePayload{Name: "Adventure Galley", MinBet: 20}, &tbl, 201, j)
	path := "/table/" + tbl.ID

	assertPost(t, ts, path+"/seat", nil, nil, 201, j2)

	var errResp errorResponse
	assertPost(t, ts, path+"/start", nil, &errResp, 403, j2)
	assert.Equal(t, "only the host can start the game", errResp.Message)

	errResp = errorResponse{}
	assertPost(t, ts, path+"/start", nil, &errResp, 412, j)
	assert.Equal(t, "not all players are ready", errResp.Message)

	assertPost(t, ts, path+"/ready", postTableUUIDReadyPayload{Ready: true}, nil, 200, j2)

	var view viewResponse
	assertPost(t, ts, path+"/start", nil, &view, 200, j)
	assert.Equal(t, model.TableStatusPlaying, view.Status)
	assert.Equal(t, model.StreetPreFlop, view.Street)
	assert.Equal(t, 1, view.CurrentSeat)
	assert.Empty(t, view.Actions)

	// hole cards are only visible to their owner
	require.Equal(t, 2, len(view.Players))
	assert.NotContains(t, view.Players[0].Cards, engine.HiddenCard)
	assert.Equal(t, []string{engine.HiddenCard, engine.HiddenCard}, view.Players[1].Cards)

	errResp = errorResponse{}
	assertPost(t, ts, path+"/check", nil, &errResp, 403, j)
	assert.Equal(t, "not your turn", errResp.Message)

	assertPost(t, ts, path+"/ready", postTableUUIDReadyPayload{Ready: false}, nil, 412, j2)

	view = viewResponse{}
	assertGet(t, ts, path, &view, 200, j2)
	assert.Equal(t, []string{"call", "raise", "fold"}, view.actionIDs())

	errResp = errorResponse{}
	assertPost(t, ts, path+"/check", nil, &errResp, 412, j2)
	assert.Equal(t, "cannot check, must call or fold", errResp.Message)

	assertPost(t, ts, path+"/bet", postTableUUIDBetPayload{Amount: -5}, nil, 400, j2)

	view = viewResponse{}
	assertPost(t, ts, path+"/fold", nil, &view, 200, j2)
	assert.Equal(t, model.TableStatusFinished, view.Status)
	assert.Equal(t, []model.Identity{model.Identity(host)}, view.Winners)

	assertPost(t, ts, path+"/fold", nil, nil, 412, j2)
}
