package mux

import (
	"net/http"
	"piratepoker-server/internal/jwt"
	"piratepoker-server/pkg/engine"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/room"
	"strings"

	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// IdentityHeader echoes the authenticated identity back to the client
const IdentityHeader = "PiratePoker-Identity"

const uuidPattern = "{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}"

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	engine  *engine.Engine
	pitBoss *room.PitBoss
	logger  logrus.FieldLogger

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(logger logrus.FieldLogger, version string, e *engine.Engine, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		engine:  e,
		pitBoss: pitBoss,
		logger:  logger,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// anonymous callers allowed, but a bearer token is still honored
	{
		r := this.Router.NewRoute().Subrouter()
		r.Use(this.optionalAuthMiddleware)

		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
		r.Methods(http.MethodGet).Path("/table/" + uuidPattern).Handler(this.getTableUUID())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/player").Handler(this.getPlayer())
		r.Methods(http.MethodPost).Path("/player/alias").Handler(this.postPlayerAlias())
		r.Methods(http.MethodPost).Path("/player/doubloons").Handler(this.postPlayerDoubloons())

		r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())
		r.Methods(http.MethodGet).Path("/table/current").Handler(this.getTableCurrent())

		tr := r.PathPrefix("/table/" + uuidPattern).Subrouter()
		tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())
		tr.Methods(http.MethodPost).Path("/seat").Handler(this.postTableUUIDSeat())
		tr.Methods(http.MethodDelete).Path("/seat").Handler(this.deleteTableUUIDSeat())
		tr.Methods(http.MethodPost).Path("/ready").Handler(this.postTableUUIDReady())
		tr.Methods(http.MethodPost).Path("/start").Handler(this.postTableUUIDStart())
		tr.Methods(http.MethodPost).Path("/bet").Handler(this.postTableUUIDBet())
		tr.Methods(http.MethodPost).Path("/check").Handler(this.postTableUUIDCheck())
		tr.Methods(http.MethodPost).Path("/fold").Handler(this.postTableUUIDFold())
	}

	return this
}

// bearerToken returns the token from the access_token parameter or the Authorization header
func bearerToken(r *http.Request) (token string, present bool) {
	if token := r.FormValue("access_token"); token != "" {
		return token, true
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", true
	}

	return parts[1], true
}

// authenticate resolves the caller, returning false if a token was supplied but is not valid
func (m *Mux) authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	token, present := bearerToken(r)
	if !present {
		return r, true
	}

	identity, err := jwt.ValidIdentity(token)
	if err != nil {
		m.logger.WithError(err).Debug("rejected token")
		return r, false
	}

	w.Header().Set(IdentityHeader, identity)
	ctx := engine.WithIdentity(r.Context(), model.Identity(identity))
	return r.WithContext(ctx), true
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, ok := m.authenticate(w, r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		if _, ok := engine.CurrentIdentity(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Mux) optionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, ok := m.authenticate(w, r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
