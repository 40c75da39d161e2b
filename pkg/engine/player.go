package engine

import (
	"context"
	"errors"
	"math"
	"piratepoker-server/internal/util"
	"piratepoker-server/pkg/model"
	"piratepoker-server/pkg/store"

	"github.com/sirupsen/logrus"
)

// profile returns the player for identity, creating it on first access
func (e *Engine) profile(ctx context.Context, tx store.Tx, identity model.Identity) (*model.Player, error) {
	player, err := tx.Player(ctx, identity)
	if err == nil {
		return player, nil
	}

	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	player = &model.Player{
		Identity:  identity,
		Alias:     util.GetRandomName(e.opts.Generator),
		Doubloons: e.opts.StartingDoubloons,
		Created:   e.now(),
	}

	if err := tx.InsertPlayer(ctx, player); err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"identity": identity,
		"alias":    player.Alias,
	}).Info("created player profile")

	return player, nil
}

// updatePlayer runs fn against the caller's profile inside a transaction
func (e *Engine) updatePlayer(ctx context.Context, fn func(p *model.Player) error) (*model.Player, error) {
	identity, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	var player *model.Player
	err = e.store.Update(ctx, func(tx store.Tx) error {
		p, err := e.profile(ctx, tx, identity)
		if err != nil {
			return err
		}

		if fn != nil {
			if err := fn(p); err != nil {
				return err
			}

			if err := tx.UpdatePlayer(ctx, p); err != nil {
				return err
			}
		}

		player = p
		return nil
	})

	if err != nil {
		return nil, translateStoreError(err)
	}

	return player, nil
}

// Profile returns the caller's profile, creating it with a random alias on first access
func (e *Engine) Profile(ctx context.Context) (*model.Player, error) {
	return e.updatePlayer(ctx, nil)
}

// UpdateAlias renames the caller
func (e *Engine) UpdateAlias(ctx context.Context, alias string) (*model.Player, error) {
	alias, ok := validName(alias)
	if !ok {
		return nil, ErrInvalidName
	}

	return e.updatePlayer(ctx, func(p *model.Player) error {
		p.Alias = alias
		return nil
	})
}

// AddDoubloons credits the caller's balance
func (e *Engine) AddDoubloons(ctx context.Context, amount int) (*model.Player, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return e.updatePlayer(ctx, func(p *model.Player) error {
		if amount > math.MaxInt-p.Doubloons {
			return ErrInvalidAmount
		}

		p.Doubloons += amount
		return nil
	})
}
