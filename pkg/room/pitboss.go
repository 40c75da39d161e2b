package room

import (
	"context"
	"piratepoker-server/pkg/engine"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/notify"

	"github.com/sirupsen/logrus"
)

// Engine is the part of the game engine the room drives
type Engine interface {
	GetTable(ctx context.Context, tableID string) (*engine.TableView, error)
	Join(ctx context.Context, tableID string) (*model.Seat, error)
	Leave(ctx context.Context, tableID string) error
	SetReady(ctx context.Context, tableID string, ready bool) error
	Start(ctx context.Context, tableID string) error
	Bet(ctx context.Context, tableID string, raise int) error
	Check(ctx context.Context, tableID string) error
	Fold(ctx context.Context, tableID string) error
}

// PitBoss is responsible for dispatching clients to the dealer of their table
type PitBoss struct {
	engine   Engine
	notifier notify.Notifier
	logger   logrus.FieldLogger

	dealers    map[string]*Dealer
	connect    chan *Client
	disconnect chan *Client
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(logger logrus.FieldLogger, e Engine, notifier notify.Notifier) *PitBoss {
	return &PitBoss{
		engine:     e,
		notifier:   notifier,
		logger:     logger,
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// StartShift starts the PitBoss run loop. It runs until ctx is done
func (p *PitBoss) StartShift(ctx context.Context) {
	changes, cancel := p.notifier.Subscribe()
	go func() {
		defer cancel()
		p.runLoop(ctx, changes)
	}()
}

func (p *PitBoss) runLoop(ctx context.Context, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			for tableID, dealer := range p.dealers {
				dealer.EndShift()
				delete(p.dealers, tableID)
			}

			return
		case client := <-p.connect:
			p.logger.WithField("client", client.String()).Debug("client connected")
			dealer, found := p.dealers[client.tableID]
			if !found {
				dealer = NewDealer(p.logger, p.engine, client.tableID)
				dealer.StartShift()
				p.dealers[client.tableID] = dealer
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			p.logger.WithField("client", client.String()).Debug("client disconnected")
			dealer, found := p.dealers[client.tableID]
			if !found {
				p.logger.WithField("table", client.tableID).Warn("dealer not found for disconnecting client")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()
				delete(p.dealers, client.tableID)
			}
		case tableID, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}

			if dealer, found := p.dealers[tableID]; found {
				dealer.TableChanged()
			}
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
