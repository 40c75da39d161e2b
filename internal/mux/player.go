package mux

import (
	"net/http"
)

func (m *Mux) getPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := m.engine.Profile(r.Context())
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, player)
	}
}

type postPlayerAliasPayload struct {
	Alias string `json:"alias"`
}

func (m *Mux) postPlayerAlias() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postPlayerAliasPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		player, err := m.engine.UpdateAlias(r.Context(), pp.Alias)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, player)
	}
}

type postPlayerDoubloonsPayload struct {
	Amount int `json:"amount"`
}

func (m *Mux) postPlayerDoubloons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postPlayerDoubloonsPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		player, err := m.engine.AddDoubloons(r.Context(), pp.Amount)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, player)
	}
}
