package main

import (
	"piratepoker-server/internal/config"
	"piratepoker-server/pkg/store/postgres"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Instance()

	s, err := postgres.WaitForDB(cfg.PGDSN, time.Second*10)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect to database")
	}
	defer s.Close()

	if err := s.Migrate(cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not migrate")
	}

	logrus.Info("migrations complete")
}
