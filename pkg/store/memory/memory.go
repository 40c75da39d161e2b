// Package memory is an in-process implementation of store.Store
package memory

import (
	"context"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/store"
	"sort"
	"sync"
)

type dataset struct {
	players map[model.Identity]*model.Player
	tables  map[string]*model.Table
	seats   map[string]map[model.Identity]*model.Seat
}

func newDataset() *dataset {
	return &dataset{
		players: make(map[model.Identity]*model.Player),
		tables:  make(map[string]*model.Table),
		seats:   make(map[string]map[model.Identity]*model.Seat),
	}
}

// clone is a deep copy so a failed transaction can simply be thrown away
func (d *dataset) clone() *dataset {
	cp := newDataset()
	for id, p := range d.players {
		cp.players[id] = p.Clone()
	}

	for id, t := range d.tables {
		cp.tables[id] = t.Clone()
	}

	for tableID, seats := range d.seats {
		m := make(map[model.Identity]*model.Seat, len(seats))
		for identity, s := range seats {
			m[identity] = s.Clone()
		}
		cp.seats[tableID] = m
	}

	return cp
}

// Store keeps everything in memory
// Update transactions are serialized through a single lock
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

// New returns an empty store
func New() *Store {
	return &Store{
		data: newDataset(),
	}
}

// Update runs fn against a private copy of the data and publishes the copy if fn succeeds
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.data.clone()
	if err := fn(&tx{data: working}); err != nil {
		return err
	}

	s.data = working
	return nil
}

// View runs fn against the current data
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(&tx{data: s.data, readOnly: true})
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

type tx struct {
	data     *dataset
	readOnly bool
}

func (t *tx) writable() error {
	if t.readOnly {
		return store.ErrReadOnly
	}

	return nil
}

func (t *tx) LockTable(_ context.Context, id string) (*model.Table, []*model.Seat, error) {
	tbl, ok := t.data.tables[id]
	if !ok {
		return nil, nil, store.ErrNotFound
	}

	seats := make([]*model.Seat, 0, len(t.data.seats[id]))
	for _, s := range t.data.seats[id] {
		seats = append(seats, s.Clone())
	}
	model.SortSeats(seats)

	return tbl.Clone(), seats, nil
}

func (t *tx) ListTables(_ context.Context, limit int) ([]*model.Table, error) {
	tables := make([]*model.Table, 0, len(t.data.tables))
	for _, tbl := range t.data.tables {
		tables = append(tables, tbl)
	}

	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Created.Equal(tables[j].Created) {
			return tables[i].ID > tables[j].ID
		}

		return tables[i].Created.After(tables[j].Created)
	})

	if limit >= 0 && len(tables) > limit {
		tables = tables[:limit]
	}

	for i, tbl := range tables {
		tables[i] = tbl.Clone()
	}

	return tables, nil
}

func (t *tx) InsertTable(_ context.Context, table *model.Table) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.data.tables[table.ID]; ok {
		return store.ErrDuplicateKey
	}

	t.data.tables[table.ID] = table.Clone()
	return nil
}

func (t *tx) UpdateTable(_ context.Context, table *model.Table) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.data.tables[table.ID]; !ok {
		return store.ErrNotFound
	}

	t.data.tables[table.ID] = table.Clone()
	return nil
}

func (t *tx) DeleteTable(_ context.Context, id string) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.data.tables[id]; !ok {
		return store.ErrNotFound
	}

	delete(t.data.tables, id)
	delete(t.data.seats, id)
	return nil
}

func (t *tx) Seat(_ context.Context, tableID string, identity model.Identity) (*model.Seat, error) {
	seat, ok := t.data.seats[tableID][identity]
	if !ok {
		return nil, store.ErrNotFound
	}

	return seat.Clone(), nil
}

func (t *tx) SeatsByIdentity(_ context.Context, identity model.Identity) ([]*model.Seat, error) {
	seats := make([]*model.Seat, 0)
	for _, tableSeats := range t.data.seats {
		if seat, ok := tableSeats[identity]; ok {
			seats = append(seats, seat.Clone())
		}
	}

	sort.Slice(seats, func(i, j int) bool {
		return seats[i].TableID < seats[j].TableID
	})

	return seats, nil
}

func (t *tx) InsertSeat(_ context.Context, seat *model.Seat) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.data.tables[seat.TableID]; !ok {
		return store.ErrNotFound
	}

	seats, ok := t.data.seats[seat.TableID]
	if !ok {
		seats = make(map[model.Identity]*model.Seat)
		t.data.seats[seat.TableID] = seats
	}

	if _, ok := seats[seat.Identity]; ok {
		return store.ErrDuplicateKey
	}

	for _, s := range seats {
		if s.Index == seat.Index {
			return store.ErrDuplicateKey
		}
	}

	seats[seat.Identity] = seat.Clone()
	return nil
}

func (t *tx) UpdateSeat(_ context.Context, seat *model.Seat) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.data.seats[seat.TableID][seat.Identity]; !ok {
		return store.ErrNotFound
	}

	t.data.seats[seat.TableID][seat.Identity] = seat.Clone()
	return nil
}

func (t *tx) DeleteSeat(_ context.Context, tableID string, identity model.Identity) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.data.seats[tableID][identity]; !ok {
		return store.ErrNotFound
	}

	delete(t.data.seats[tableID], identity)
	return nil
}

func (t *tx) Player(_ context.Context, identity model.Identity) (*model.Player, error) {
	p, ok := t.data.players[identity]
	if !ok {
		return nil, store.ErrNotFound
	}

	return p.Clone(), nil
}

func (t *tx) InsertPlayer(_ context.Context, player *model.Player) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.data.players[player.Identity]; ok {
		return store.ErrDuplicateKey
	}

	t.data.players[player.Identity] = player.Clone()
	return nil
}

func (t *tx) UpdatePlayer(_ context.Context, player *model.Player) error {
	if err := t.writable(); err != nil {
		return err
	}

	if _, ok := t.data.players[player.Identity]; !ok {
		return store.ErrNotFound
	}

	t.data.players[player.Identity] = player.Clone()
	return nil
}
