// Package postgres is the PostgreSQL implementation of store.Store
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"piratepoker-server/pkg/deck"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/store"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	_ "github.com/golang-migrate/migrate/v4/source/file" // needed
)

const (
	pqDuplicateKeyErrorCode     pq.ErrorCode = "23505"
	pqForeignKeyErrorCode       pq.ErrorCode = "23503"
	pqSerializationFailureCode  pq.ErrorCode = "40001"
	pqDeadlockDetectedCode      pq.ErrorCode = "40P01"
	pqLockNotAvailableCode      pq.ErrorCode = "55P03"
	pqInvalidTextRepresentation pq.ErrorCode = "22P02"
)

// lockTimeout bounds how long a transaction waits for a table lock
const lockTimeout = "5s"

// Scanner is an interface that sql should've provided
type Scanner interface {
	Scan(...interface{}) error
}

// Store is a store.Store backed by PostgreSQL
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to the database at dsn
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db), nil
}

// New returns a store using an existing connection pool
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// WaitForDB retries Open until the database answers or the timeout elapses
func WaitForDB(dsn string, timeout time.Duration) (*Store, error) {
	deadline := time.Now().Add(timeout)
	for {
		s, err := Open(dsn)
		if err == nil {
			return s, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}

		time.Sleep(time.Millisecond * 500)
	}
}

// Migrate runs the migrations found in migrationsPath
func (s *Store) Migrate(migrationsPath string) error {
	logrus.WithField("migrationsPath", migrationsPath).Info("running migrations")
	driver, err := postgres.WithInstance(s.db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Update implements store.Store
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.run(ctx, false, fn)
}

// View implements store.Store
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.run(ctx, true, fn)
}

// Close implements store.Store
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(tx store.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return translate(err)
	}

	commit := false
	defer func() {
		if commit {
			return
		}

		if err := sqlTx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logrus.WithError(err).Error("could not rollback transaction")
		}
	}()

	if !readOnly {
		if _, err := sqlTx.ExecContext(ctx, "SET LOCAL lock_timeout = '"+lockTimeout+"'"); err != nil {
			return translate(err)
		}
	}

	if err := fn(&tx{tx: sqlTx, readOnly: readOnly}); err != nil {
		return translate(err)
	}

	commit = true
	if err := sqlTx.Commit(); err != nil {
		return translate(err)
	}

	return nil
}

// translate maps driver errors onto the store errors
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqDuplicateKeyErrorCode:
			return fmt.Errorf("%w: %s", store.ErrDuplicateKey, pqErr.Constraint)
		case pqSerializationFailureCode, pqDeadlockDetectedCode, pqLockNotAvailableCode:
			return fmt.Errorf("%w: %s", store.ErrConflict, pqErr.Message)
		case pqForeignKeyErrorCode, pqInvalidTextRepresentation:
			// missing table, or a table UUID that isn't one
			return store.ErrNotFound
		}
	}

	return err
}

type tx struct {
	tx       *sql.Tx
	readOnly bool
}

func (t *tx) writable() error {
	if t.readOnly {
		return store.ErrReadOnly
	}

	return nil
}

func (t *tx) exec(ctx context.Context, query string, args ...interface{}) error {
	if err := t.writable(); err != nil {
		return err
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return store.ErrNotFound
	}

	return nil
}

const tableColumns = `
tables.uuid,
tables.name,
tables.status,
tables.host,
tables.max_players,
tables.min_bet,
tables.pot,
tables.current_bet,
tables.current_seat,
tables.dealer_seat,
tables.community,
tables.deck,
tables.street,
tables.winners,
tables.prize,
tables.created,
tables.last_action`

func getTableByRow(row Scanner) (*model.Table, error) {
	var t model.Table
	var status, host, street string
	var community, cards, winners []string

	if err := row.Scan(
		&t.ID,
		&t.Name,
		&status,
		&host,
		&t.MaxPlayers,
		&t.MinBet,
		&t.Pot,
		&t.CurrentBet,
		&t.CurrentSeat,
		&t.DealerSeat,
		pq.Array(&community),
		pq.Array(&cards),
		&street,
		pq.Array(&winners),
		&t.Prize,
		&t.Created,
		&t.LastAction,
	); err != nil {
		return nil, err
	}

	var err error
	if t.Status, err = model.ParseTableStatus(status); err != nil {
		return nil, err
	}

	if t.Street, err = model.ParseStreet(street); err != nil {
		return nil, err
	}

	if t.Community, err = deck.ParseCards(community); err != nil {
		return nil, err
	}

	remaining, err := deck.ParseCards(cards)
	if err != nil {
		return nil, err
	}

	t.Host = model.Identity(host)
	t.Deck = deck.Deck(remaining)
	t.Winners = make([]model.Identity, len(winners))
	for i, w := range winners {
		t.Winners[i] = model.Identity(w)
	}

	t.Created = t.Created.UTC()
	t.LastAction = t.LastAction.UTC()
	return &t, nil
}

func tableArgs(t *model.Table) []interface{} {
	winners := make([]string, len(t.Winners))
	for i, w := range t.Winners {
		winners[i] = string(w)
	}

	return []interface{}{
		t.ID,
		t.Name,
		string(t.Status),
		string(t.Host),
		t.MaxPlayers,
		t.MinBet,
		t.Pot,
		t.CurrentBet,
		t.CurrentSeat,
		t.DealerSeat,
		pq.Array(deck.CardsToStrings(t.Community)),
		pq.Array(deck.CardsToStrings(t.Deck)),
		t.Street.String(),
		pq.Array(winners),
		t.Prize,
		t.Created,
		t.LastAction,
	}
}

// LockTable implements store.Tx
func (t *tx) LockTable(ctx context.Context, id string) (*model.Table, []*model.Seat, error) {
	query := `
SELECT ` + tableColumns + `
FROM tables
WHERE uuid = $1`
	if !t.readOnly {
		query += "\nFOR UPDATE"
	}

	tbl, err := getTableByRow(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, nil, translate(err)
	}

	seats, err := t.seats(ctx, `WHERE seats.table_uuid = $1 ORDER BY seats.seat_index`, id)
	if err != nil {
		return nil, nil, err
	}

	return tbl, seats, nil
}

// ListTables implements store.Tx
func (t *tx) ListTables(ctx context.Context, limit int) ([]*model.Table, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
ORDER BY tables.created DESC, tables.uuid DESC
LIMIT $1`

	rows, err := t.tx.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	tables := make([]*model.Table, 0, limit)
	for rows.Next() {
		tbl, err := getTableByRow(rows)
		if err != nil {
			return nil, err
		}

		tables = append(tables, tbl)
	}

	return tables, rows.Err()
}

// InsertTable implements store.Tx
func (t *tx) InsertTable(ctx context.Context, table *model.Table) error {
	const query = `
INSERT INTO tables (uuid, name, status, host, max_players, min_bet, pot, current_bet, current_seat,
                    dealer_seat, community, deck, street, winners, prize, created, last_action)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	return t.exec(ctx, query, tableArgs(table)...)
}

// UpdateTable implements store.Tx
func (t *tx) UpdateTable(ctx context.Context, table *model.Table) error {
	const query = `
UPDATE tables
SET name = $2, status = $3, host = $4, max_players = $5, min_bet = $6, pot = $7, current_bet = $8,
    current_seat = $9, dealer_seat = $10, community = $11, deck = $12, street = $13, winners = $14,
    prize = $15, created = $16, last_action = $17
WHERE uuid = $1`

	return t.exec(ctx, query, tableArgs(table)...)
}

// DeleteTable implements store.Tx
// Seats go with it through the foreign key cascade
func (t *tx) DeleteTable(ctx context.Context, id string) error {
	return t.exec(ctx, `DELETE FROM tables WHERE uuid = $1`, id)
}

const seatColumns = `
seats.table_uuid,
seats.identity,
seats.seat_index,
seats.cards,
seats.bet,
seats.round_bet,
seats.status,
seats.ready,
seats.acted`

func getSeatByRow(row Scanner) (*model.Seat, error) {
	var s model.Seat
	var identity, status string
	var cards []string

	if err := row.Scan(
		&s.TableID,
		&identity,
		&s.Index,
		pq.Array(&cards),
		&s.Bet,
		&s.RoundBet,
		&status,
		&s.Ready,
		&s.Acted,
	); err != nil {
		return nil, err
	}

	var err error
	if s.Status, err = model.ParseSeatStatus(status); err != nil {
		return nil, err
	}

	if s.Cards, err = deck.ParseCards(cards); err != nil {
		return nil, err
	}

	s.Identity = model.Identity(identity)
	return &s, nil
}

func seatArgs(s *model.Seat) []interface{} {
	return []interface{}{
		s.TableID,
		string(s.Identity),
		s.Index,
		pq.Array(deck.CardsToStrings(s.Cards)),
		s.Bet,
		s.RoundBet,
		string(s.Status),
		s.Ready,
		s.Acted,
	}
}

func (t *tx) seats(ctx context.Context, where string, args ...interface{}) ([]*model.Seat, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT `+seatColumns+` FROM seats `+where, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	seats := make([]*model.Seat, 0)
	for rows.Next() {
		s, err := getSeatByRow(rows)
		if err != nil {
			return nil, err
		}

		seats = append(seats, s)
	}

	return seats, rows.Err()
}

// Seat implements store.Tx
func (t *tx) Seat(ctx context.Context, tableID string, identity model.Identity) (*model.Seat, error) {
	const query = `
SELECT ` + seatColumns + `
FROM seats
WHERE table_uuid = $1 AND identity = $2`

	s, err := getSeatByRow(t.tx.QueryRowContext(ctx, query, tableID, string(identity)))
	if err != nil {
		return nil, translate(err)
	}

	return s, nil
}

// SeatsByIdentity implements store.Tx
func (t *tx) SeatsByIdentity(ctx context.Context, identity model.Identity) ([]*model.Seat, error) {
	return t.seats(ctx, `WHERE seats.identity = $1 ORDER BY seats.table_uuid`, string(identity))
}

// InsertSeat implements store.Tx
func (t *tx) InsertSeat(ctx context.Context, seat *model.Seat) error {
	const query = `
INSERT INTO seats (table_uuid, identity, seat_index, cards, bet, round_bet, status, ready, acted)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	return t.exec(ctx, query, seatArgs(seat)...)
}

// UpdateSeat implements store.Tx
func (t *tx) UpdateSeat(ctx context.Context, seat *model.Seat) error {
	const query = `
UPDATE seats
SET seat_index = $3, cards = $4, bet = $5, round_bet = $6, status = $7, ready = $8, acted = $9
WHERE table_uuid = $1 AND identity = $2`

	return t.exec(ctx, query, seatArgs(seat)...)
}

// DeleteSeat implements store.Tx
func (t *tx) DeleteSeat(ctx context.Context, tableID string, identity model.Identity) error {
	return t.exec(ctx, `DELETE FROM seats WHERE table_uuid = $1 AND identity = $2`, tableID, string(identity))
}

const playerColumns = `
players.identity,
players.alias,
players.doubloons,
players.games_played,
players.games_won,
players.created`

func getPlayerByRow(row Scanner) (*model.Player, error) {
	var p model.Player
	var identity string
	if err := row.Scan(&identity, &p.Alias, &p.Doubloons, &p.GamesPlayed, &p.GamesWon, &p.Created); err != nil {
		return nil, err
	}

	p.Identity = model.Identity(identity)
	p.Created = p.Created.UTC()
	return &p, nil
}

// playerQuery selects one player, locking the row for writers
// A profile is shared by every table its owner sits at, so the table lock doesn't cover it
func playerQuery(readOnly bool) string {
	query := `
SELECT ` + playerColumns + `
FROM players
WHERE identity = $1`
	if !readOnly {
		query += "\nFOR UPDATE"
	}

	return query
}

// Player implements store.Tx
func (t *tx) Player(ctx context.Context, identity model.Identity) (*model.Player, error) {
	p, err := getPlayerByRow(t.tx.QueryRowContext(ctx, playerQuery(t.readOnly), string(identity)))
	if err != nil {
		return nil, translate(err)
	}

	return p, nil
}

// InsertPlayer implements store.Tx
func (t *tx) InsertPlayer(ctx context.Context, player *model.Player) error {
	const query = `
INSERT INTO players (identity, alias, doubloons, games_played, games_won, created)
VALUES ($1, $2, $3, $4, $5, $6)`

	return t.exec(ctx, query, string(player.Identity), player.Alias, player.Doubloons, player.GamesPlayed, player.GamesWon, player.Created)
}

// UpdatePlayer implements store.Tx
func (t *tx) UpdatePlayer(ctx context.Context, player *model.Player) error {
	const query = `
UPDATE players
SET alias = $2, doubloons = $3, games_played = $4, games_won = $5
WHERE identity = $1`

	return t.exec(ctx, query, string(player.Identity), player.Alias, player.Doubloons, player.GamesPlayed, player.GamesWon)
}
