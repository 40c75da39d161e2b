package mux

import (
	"context"
	"net/http"

	gmux "github.com/gorilla/mux"
)

type statusResponse struct {
	Status string `json:"status"`
}

var statusOK = statusResponse{Status: "OK"}

func tableID(r *http.Request) string {
	return gmux.Vars(r)["uuid"]
}

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables, err := m.engine.ListTables(r.Context())
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, tables)
	}
}

type postTablePayload struct {
	Name       string `json:"name"`
	MinBet     int    `json:"minBet"`
	MaxPlayers int    `json:"maxPlayers"`
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		tbl, err := m.engine.CreateTable(r.Context(), pp.Name, pp.MinBet, pp.MaxPlayers)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, tbl)
	}
}

func (m *Mux) getTableCurrent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl, err := m.engine.CurrentTable(r.Context())
		if err != nil {
			writeEngineError(w, err)
			return
		}

		if tbl == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, tbl)
	}
}

func (m *Mux) getTableUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := m.engine.GetTable(r.Context(), tableID(r))
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}

func (m *Mux) postTableUUIDSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seat, err := m.engine.Join(r.Context(), tableID(r))
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, seat)
	}
}

func (m *Mux) deleteTableUUIDSeat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.engine.Leave(r.Context(), tableID(r)); err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statusOK)
	}
}

type postTableUUIDReadyPayload struct {
	Ready bool `json:"ready"`
}

func (m *Mux) postTableUUIDReady() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTableUUIDReadyPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if err := m.engine.SetReady(r.Context(), tableID(r), pp.Ready); err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statusOK)
	}
}

func (m *Mux) postTableUUIDStart() http.HandlerFunc {
	return m.tableAction(func(ctx context.Context, id string) error {
		return m.engine.Start(ctx, id)
	})
}

type postTableUUIDBetPayload struct {
	Amount int `json:"amount"`
}

func (m *Mux) postTableUUIDBet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTableUUIDBetPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		m.tableAction(func(ctx context.Context, id string) error {
			return m.engine.Bet(ctx, id, pp.Amount)
		})(w, r)
	}
}

func (m *Mux) postTableUUIDCheck() http.HandlerFunc {
	return m.tableAction(func(ctx context.Context, id string) error {
		return m.engine.Check(ctx, id)
	})
}

func (m *Mux) postTableUUIDFold() http.HandlerFunc {
	return m.tableAction(func(ctx context.Context, id string) error {
		return m.engine.Fold(ctx, id)
	})
}

// tableAction runs fn and responds with the caller's view of the table afterwards
func (m *Mux) tableAction(fn func(ctx context.Context, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := tableID(r)
		if err := fn(r.Context(), id); err != nil {
			writeEngineError(w, err)
			return
		}

		view, err := m.engine.GetTable(r.Context(), id)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	}
}
