package room

import (
	"context"
	"errors"
	"fmt"
	"piratepoker-server/pkg/engine"
	"sync"

	"github.com/sirupsen/logrus"
)

// Dealer pushes table state to the clients watching one table and relays their actions
type Dealer struct {
	tableID string
	engine  Engine
	logger  logrus.FieldLogger

	clients map[*Client]bool
	lock    sync.RWMutex

	execInRunLoop chan func()

	// tableChanged holds at most one pending refresh, so bursts of changes coalesce
	tableChanged chan bool
	close        chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(logger logrus.FieldLogger, e Engine, tableID string) *Dealer {
	return &Dealer{
		tableID:       tableID,
		engine:        e,
		logger:        logger.WithField("table", tableID),
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		tableChanged:  make(chan bool, 1),
		close:         make(chan bool),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case <-d.tableChanged:
			for _, client := range d.Clients() {
				d.sendTableState(client)
			}
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client and sends it the current table state
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	d.clients[client] = true
	d.lock.Unlock()
	client.setDealer(d)

	d.execInRunLoop <- func() {
		d.sendTableState(client)
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	delete(d.clients, client)
	return len(d.clients) == 0
}

// TableChanged schedules a refresh of every client
func (d *Dealer) TableChanged() {
	select {
	case d.tableChanged <- true:
	default:
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendTableState(client *Client) {
	ctx := engine.WithIdentity(context.Background(), client.identity)
	view, err := d.engine.GetTable(ctx, d.tableID)
	if err != nil {
		if errors.Is(err, engine.ErrTableNotFound) {
			client.Send(newTableClosedResponse(d.tableID))
			return
		}

		d.logger.WithError(err).WithField("client", client.String()).Error("could not get table state")
		return
	}

	if !client.Send(newTableStateResponse(view)) {
		d.logger.WithField("client", client.String()).Warn("client is not keeping up, dropped table state")
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	d.execInRunLoop <- func() {
		if err := d.dispatch(c, msg); err != nil {
			log := d.logger.WithError(err).WithField("client", c.String()).WithField("action", msg.Action)
			if engine.KindOf(err) == engine.KindInternal {
				log.Error("could not perform action")
			} else {
				log.Debug("action rejected")
			}

			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		c.Send(OK(msg.Context))
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) dispatch(c *Client, msg *PayloadIn) error {
	ctx := engine.WithIdentity(context.Background(), c.identity)

	switch msg.Action {
	case "join":
		_, err := d.engine.Join(ctx, d.tableID)
		return err
	case "leave":
		return d.engine.Leave(ctx, d.tableID)
	case "ready":
		return d.engine.SetReady(ctx, d.tableID, msg.Ready)
	case "start":
		return d.engine.Start(ctx, d.tableID)
	case "call":
		return d.engine.Bet(ctx, d.tableID, 0)
	case "bet", "raise":
		return d.engine.Bet(ctx, d.tableID, msg.Amount)
	case "check":
		return d.engine.Check(ctx, d.tableID)
	case "fold":
		return d.engine.Fold(ctx, d.tableID)
	case "refresh":
		d.sendTableState(c)
		return nil
	}

	return &engine.Error{Kind: engine.KindInvalidArgument, Message: fmt.Sprintf("unknown action: %s", msg.Action)}
}
