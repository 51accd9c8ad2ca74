package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// AMQP queues notifications for an external delivery worker instead of
// sending them inline.
type AMQP struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   zerolog.Logger
}

type queuedMessage struct {
	MessageID string    `json:"message_id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	QueuedAt  time.Time `json:"queued_at"`
}

func NewAMQP(url, queue string, log zerolog.Logger) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQP{conn: conn, ch: ch, queue: queue, log: log}, nil
}

func (a *AMQP) Send(to, subject, body string) bool {
	id := uuid.NewString()
	payload, _ := json.Marshal(queuedMessage{
		MessageID: id,
		To:        to,
		Subject:   subject,
		Body:      body,
		QueuedAt:  time.Now().UTC(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := a.ch.PublishWithContext(ctx, "", a.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   id,
		Body:        payload,
	})
	if err != nil {
		a.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("publish notification failed")
		return false
	}
	return true
}

func (a *AMQP) Close() {
	if a.ch != nil {
		_ = a.ch.Close()
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
}
