package services

import (
	"fmt"
	"time"

	"payments-module/config"
	"payments-module/logger"
)

// PublishPaymentEvent publishes a payment lifecycle event to Kafka on a
// background goroutine. Event publishing is non-critical; failures are
// logged and never surface to the caller.
func PublishPaymentEvent(event string, fields map[string]interface{}) {
	go func() {
		evt := map[string]interface{}{
			"event": event,
			"ts":    time.Now().UTC().Format(time.RFC3339),
		}
		for k, v := range fields {
			evt[k] = v
		}

		key := event
		if orderID, ok := fields["order_id"].(string); ok && orderID != "" {
			key = fmt.Sprintf("order-%s", orderID)
		}

		if err := Publish(config.AppConfig.KafkaTopic, key, evt); err != nil {
			logger.Warn("Failed to publish %s event: %v", event, err)
		}
	}()
}
