// Package events publishes settled-transaction events for downstream
// collaborators (notifications, VIP accrual). Publishing is a
// fire-and-forget side effect of an already-committed transaction.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"neon-casino/internal/app/wallet"
)

const (
	RoutingKeyBetSettled     = "bet.settled"
	RoutingKeyDepositSettled = "deposit.settled"
)

// AMQPPublisher publishes JSON events to one topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.DialConfig(amqpURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *AMQPPublisher) PublishBetSettled(ctx context.Context, res *wallet.BetExecutionResult) error {
	return p.publish(ctx, RoutingKeyBetSettled, res)
}

func (p *AMQPPublisher) PublishDepositSettled(ctx context.Context, res *wallet.DepositExecutionResult) error {
	return p.publish(ctx, RoutingKeyDepositSettled, res)
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
}

// NoopPublisher stands in when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBetSettled(ctx context.Context, res *wallet.BetExecutionResult) error {
	log.Debug().Str("bet_id", res.BetID).Msg("event publishing disabled, bet event dropped")
	return nil
}

func (NoopPublisher) PublishDepositSettled(ctx context.Context, res *wallet.DepositExecutionResult) error {
	log.Debug().Str("deposit_id", res.DepositID).Msg("event publishing disabled, deposit event dropped")
	return nil
}
