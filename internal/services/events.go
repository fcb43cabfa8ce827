package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher delivers serialized domain events to a broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderEvent is published after an order transaction commits.
type OrderEvent struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

func publishOrderEvent(events EventPublisher, log logrus.FieldLogger, eventType, orderID, userID, status string) {
	if events == nil {
		return
	}
	body, err := json.Marshal(OrderEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OrderID:    orderID,
		UserID:     userID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.WithError(err).Error("failed to marshal order event")
		return
	}
	// The order is already committed; a lost event is logged, not rolled back.
	if err := events.Publish(eventType, body); err != nil {
		log.WithError(err).WithFields(logrus.Fields{"event": eventType, "order_id": orderID}).Warn("failed to publish order event")
	}
}
