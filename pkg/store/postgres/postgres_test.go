package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"piratepoker-server/pkg/deck"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/store"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

var cbg = context.Background()

func TestTranslate(t *testing.T) {
	a := assert.New(t)

	a.Nil(translate(nil))
	a.Equal(store.ErrNotFound, translate(sql.ErrNoRows))
	a.True(errors.Is(translate(&pq.Error{Code: pqDuplicateKeyErrorCode}), store.ErrDuplicateKey))
	a.True(errors.Is(translate(&pq.Error{Code: pqSerializationFailureCode}), store.ErrConflict))
	a.True(errors.Is(translate(&pq.Error{Code: pqDeadlockDetectedCode}), store.ErrConflict))
	a.True(errors.Is(translate(&pq.Error{Code: pqLockNotAvailableCode}), store.ErrConflict))
	a.Equal(store.ErrNotFound, translate(&pq.Error{Code: pqInvalidTextRepresentation}))
	a.Equal(store.ErrNotFound, translate(&pq.Error{Code: pqForeignKeyErrorCode}))

	other := errors.New("boom")
	a.Equal(other, translate(other))
}

// testStore connects to the database in PIRATE_PG_DSN, skipping the test if it's not set
func testStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("PIRATE_PG_DSN")
	if dsn == "" {
		t.Skip("PIRATE_PG_DSN is not set")
	}

	s, err := Open(dsn)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	migrationsPath := os.Getenv("PIRATE_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "../../../sql"
	}

	if !assert.NoError(t, s.Migrate(migrationsPath)) {
		t.FailNow()
	}

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTable() *model.Table {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Table{
		ID:         uuid.New().String(),
		Name:       "Jolly Roger",
		Status:     model.TableStatusWaiting,
		Host:       model.Identity(uuid.New().String()),
		MaxPlayers: 4,
		MinBet:     20,
		Community:  []deck.Card{},
		Deck:       deck.New(),
		Street:     model.StreetPreFlop,
		Winners:    []model.Identity{},
		Created:    now,
		LastAction: now,
	}
}

func TestStore_tableRoundTrip(t *testing.T) {
	a := assert.New(t)
	s := testStore(t)

	tbl := newTable()
	seat := &model.Seat{TableID: tbl.ID, Identity: tbl.Host, Index: 0, Cards: []deck.Card{}, Status: model.SeatStatusWaiting}

	err := s.Update(cbg, func(tx store.Tx) error {
		if err := tx.InsertTable(cbg, tbl); err != nil {
			return err
		}

		return tx.InsertSeat(cbg, seat)
	})
	a.NoError(err)

	err = s.View(cbg, func(tx store.Tx) error {
		got, seats, err := tx.LockTable(cbg, tbl.ID)
		if err != nil {
			return err
		}

		a.Equal(tbl, got)
		a.Equal([]*model.Seat{seat}, seats)

		a.Equal(store.ErrReadOnly, tx.UpdateTable(cbg, got))
		return nil
	})
	a.NoError(err)

	err = s.Update(cbg, func(tx store.Tx) error {
		return tx.InsertSeat(cbg, &model.Seat{TableID: tbl.ID, Identity: tbl.Host, Index: 1, Status: model.SeatStatusWaiting})
	})
	a.True(errors.Is(err, store.ErrDuplicateKey))

	err = s.Update(cbg, func(tx store.Tx) error {
		return tx.DeleteTable(cbg, tbl.ID)
	})
	a.NoError(err)

	err = s.View(cbg, func(tx store.Tx) error {
		_, err := tx.Seat(cbg, tbl.ID, tbl.Host)
		return err
	})
	a.Equal(store.ErrNotFound, err)
}

func TestStore_rollback(t *testing.T) {
	a := assert.New(t)
	s := testStore(t)

	tbl := newTable()
	boom := errors.New("boom")
	err := s.Update(cbg, func(tx store.Tx) error {
		if err := tx.InsertTable(cbg, tbl); err != nil {
			return err
		}

		return boom
	})
	a.Equal(boom, err)

	err = s.View(cbg, func(tx store.Tx) error {
		_, _, err := tx.LockTable(cbg, tbl.ID)
		return err
	})
	a.Equal(store.ErrNotFound, err)

	err = s.View(cbg, func(tx store.Tx) error {
		_, _, err := tx.LockTable(cbg, "not-a-uuid")
		return err
	})
	a.Equal(store.ErrNotFound, err)
}

func TestStore_players(t *testing.T) {
	a := assert.New(t)
	s := testStore(t)

	p := &model.Player{
		Identity:  model.Identity(uuid.New().String()),
		Alias:     "Salty Jack",
		Doubloons: 1000,
		Created:   time.Now().UTC().Truncate(time.Microsecond),
	}

	err := s.Update(cbg, func(tx store.Tx) error {
		if err := tx.InsertPlayer(cbg, p); err != nil {
			return err
		}

		p.Doubloons = 900
		p.GamesPlayed = 1
		return tx.UpdatePlayer(cbg, p)
	})
	a.NoError(err)

	err = s.View(cbg, func(tx store.Tx) error {
		got, err := tx.Player(cbg, p.Identity)
		if err != nil {
			return err
		}

		a.Equal(p, got)
		return nil
	})
	a.NoError(err)
}

func Test_playerQuery(t *testing.T) {
	assert.Contains(t, playerQuery(false), "FOR UPDATE")
	assert.NotContains(t, playerQuery(true), "FOR UPDATE")
}

func TestStore_concurrentPlayerUpdates(t *testing.T) {
	a := assert.New(t)
	s := testStore(t)

	p := &model.Player{
		Identity:  model.Identity(uuid.New().String()),
		Alias:     "Anne Bonny",
		Doubloons: 1000,
		Created:   time.Now().UTC().Truncate(time.Microsecond),
	}
	a.NoError(s.Update(cbg, func(tx store.Tx) error {
		return tx.InsertPlayer(cbg, p)
	}))

	const writers = 10
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Update(cbg, func(tx store.Tx) error {
				got, err := tx.Player(cbg, p.Identity)
				if err != nil {
					return err
				}

				// widen the window between read and write
				time.Sleep(time.Millisecond * 10)
				got.Doubloons -= 20
				return tx.UpdatePlayer(cbg, got)
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		a.NoError(err)
	}

	a.NoError(s.View(cbg, func(tx store.Tx) error {
		got, err := tx.Player(cbg, p.Identity)
		if err != nil {
			return err
		}

		a.Equal(1000-writers*20, got.Doubloons)
		return nil
	}))
}
