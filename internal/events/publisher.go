package events

import (
	"context"
	"log"

	"tenancy-service/internal/models"
)

type Publisher interface {
	PublishAuditAlert(ctx context.Context, entry *models.AuditLogEntry) error

	// Close closes the publisher and releases resources
	Close() error
}

type EventPublisher struct {
	rabbitMQ *RabbitMQClient
	enabled  bool
}

func NewEventPublisher(rabbitURI string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, audit alert publishing is disabled")
		return &EventPublisher{
			rabbitMQ: nil,
			enabled:  false,
		}, nil
	}

	client, err := NewRabbitMQClient(rabbitURI)
	if err != nil {
		return nil, err
	}

	if err := client.setupExchangesAndQueues(); err != nil {
		client.Close()
		return nil, err
	}

	return &EventPublisher{
		rabbitMQ: client,
		enabled:  true,
	}, nil
}

func (p *EventPublisher) PublishAuditAlert(ctx context.Context, entry *models.AuditLogEntry) error {
	if !p.enabled {
		log.Println("Audit alert publishing is disabled, skipping AuditAlertEvent")
		return nil
	}

	event := NewAuditAlertEvent(entry)

	eventData, err := event.ToJSON()
	if err != nil {
		return err
	}

	err = p.rabbitMQ.PublishEvent("audit-events", string(AuditAlert), eventData)
	if err != nil {
		return err
	}

	log.Printf("Published audit alert for entry %s (action %s)", entry.EntryID, entry.Action)
	return nil
}

// Close releases resources
func (p *EventPublisher) Close() error {
	if !p.enabled || p.rabbitMQ == nil {
		return nil
	}

	return p.rabbitMQ.Close()
}
