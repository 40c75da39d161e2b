package notify

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultChannel is the pub/sub channel table changes are published on
const DefaultChannel = "piratepoker:tables"

// Redis publishes table changes through Redis pub/sub so every server instance hears them
type Redis struct {
	client  *redis.Client
	channel string
	local   *Local
	logger  logrus.FieldLogger
}

var _ Notifier = (*Redis)(nil)

// NewRedis returns a notifier publishing on channel
func NewRedis(logger logrus.FieldLogger, client *redis.Client, channel string) *Redis {
	if channel == "" {
		channel = DefaultChannel
	}

	return &Redis{
		client:  client,
		channel: channel,
		local:   NewLocal(logger),
		logger:  logger.WithField("channel", channel),
	}
}

// TableChanged implements Notifier
// If the publish fails the change is still delivered to subscribers in this process
func (r *Redis) TableChanged(ctx context.Context, tableID string) {
	if err := r.client.Publish(ctx, r.channel, tableID).Err(); err != nil {
		r.logger.WithError(err).WithField("table", tableID).Error("could not publish table change")
		r.local.TableChanged(ctx, tableID)
	}
}

// Subscribe implements Notifier
func (r *Redis) Subscribe() (<-chan string, func()) {
	return r.local.Subscribe()
}

// Run relays published changes to local subscribers until ctx is done
func (r *Redis) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			r.logger.WithError(err).Warn("could not close subscription")
		}
	}()

	// wait for the subscription to be confirmed so no publish is missed after Run starts
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	r.logger.Info("listening for table changes")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}

			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			r.local.TableChanged(ctx, msg.Payload)
		}
	}
}

// RunWithRetry keeps the relay running until ctx is done, restarting it after failures
// The wait between attempts doubles from minBackoff up to maxBackoff
func (r *Redis) RunWithRetry(ctx context.Context, minBackoff, maxBackoff time.Duration) {
	backoff := minBackoff
	for {
		started := time.Now()
		err := r.Run(ctx)
		if ctx.Err() != nil {
			return
		}

		// a relay that stayed up for a while starts over with a short wait
		if time.Since(started) > maxBackoff {
			backoff = minBackoff
		}

		r.logger.WithError(err).WithField("backoff", backoff).Warn("redis relay stopped, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
