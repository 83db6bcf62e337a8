package services

import (
	"encoding/json"
	"log"
)

// EventPublisher publishes order lifecycle events to the message broker.
// *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// publishEvent marshals and publishes an event, logging instead of failing:
// a broker outage must not fail the request that triggered the event.
func publishEvent(publisher EventPublisher, eventType string, payload map[string]interface{}) {
	if publisher == nil {
		log.Printf("Event publisher is not initialized. Skipping %s event.", eventType)
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := publisher.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
