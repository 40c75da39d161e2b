package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"piratepoker-server/internal/app"
	"piratepoker-server/internal/config"
	"piratepoker-server/internal/jwt"
	"piratepoker-server/internal/mux"
	"piratepoker-server/pkg/room"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address, overrides the configuration")

func main() {
	flag.Parse()

	cfg := config.Instance()
	if err := app.SetupLogger(cfg); err != nil {
		logrus.WithError(err).Fatal("could not set up logger")
	}

	// fail fast
	if err := jwt.LoadKeys(); err != nil {
		logrus.WithError(err).Fatal("could not load keys")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := app.OpenStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("could not open store")
	}
	defer s.Close()

	logger := logrus.StandardLogger()
	notifier := app.NewNotifier(ctx, logger, cfg)
	e := app.NewEngine(logger, s, notifier, cfg)

	pitBoss := room.NewPitBoss(logger, e, notifier)
	pitBoss.StartShift(ctx)

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		ExposedHeaders: []string{mux.IdentityHeader},
	})

	listen := cfg.Addr
	if *addr != "" {
		listen = *addr
	}

	srv := &http.Server{
		Addr:         listen,
		Handler:      loggingHandler(cfg, c.Handler(mux.NewMux(logger, Version, e, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("could not shut down cleanly")
		}
	}()

	logrus.WithField("addr", srv.Addr).WithField("store", cfg.Store).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func loggingHandler(cfg config.Config, next http.Handler) http.Handler {
	if cfg.Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}
