package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/resto-planning/shift-planner/backend/internal/domain"
)

// Channel est la partie d'un *amqp.Channel utilisée pour publier
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher envoie les notifications de planning dans la file des mails
type Publisher struct {
	ch      Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(ch Channel, queue string, timeout time.Duration) *Publisher {
	return &Publisher{
		ch:      ch,
		queue:   queue,
		timeout: timeout,
	}
}

func (p *Publisher) ShiftChanged(kind string, employee *domain.Employee, shift *domain.Shift) error {
	body, err := json.Marshal(NewShiftMessage(kind, employee, shift))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func NewShiftMessage(kind string, employee *domain.Employee, shift *domain.Shift) domain.MailMessage {
	return domain.MailMessage{
		Type: kind,
		To:   employee.Email,
		Data: domain.ShiftMailData{
			FullName:      employee.FullName(),
			Day:           shift.Day,
			StartTime:     shift.FormattedTime(),
			EndTime:       shift.FormattedEnd(),
			DurationHours: shift.DurationHours,
			Notes:         shift.Notes,
		},
	}
}

// Connect ouvre la connexion et déclare la file durable utilisée par le worker mail
func Connect(dsn, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(dsn)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // pas de suppression automatique
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}
