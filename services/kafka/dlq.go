package kafka

import (
	"fmt"

	"permit-portal/db"
	"permit-portal/logger"
)

// StoreDLQMessage records a message that exhausted publish retries so it
// can be inspected and replayed later.
func StoreDLQMessage(topic, key string, payload []byte, errorMsg string) error {
	if len(errorMsg) > 500 {
		errorMsg = errorMsg[:500]
	}

	_, err := db.DB.Exec(
		`INSERT INTO dlq_messages (topic, key, payload, error_message, status)
		 VALUES ($1, $2, $3, $4, 'UNRESOLVED')`,
		topic, key, string(payload), errorMsg)
	if err != nil {
		return fmt.Errorf("error inserting DLQ message: %w", err)
	}
	return nil
}

// GetDLQMessages returns up to limit unresolved dead-letter messages,
// newest first.
func GetDLQMessages(limit int) ([]map[string]interface{}, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := db.DB.Query(
		`SELECT id, topic, key, payload, error_message, status, retry_count, created_at
		 FROM dlq_messages WHERE status = 'UNRESOLVED'
		 ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error reading DLQ messages: %w", err)
	}
	defer rows.Close()

	var messages []map[string]interface{}
	for rows.Next() {
		var id, retryCount int
		var topic, key, payload, errorMsg, status string
		var createdAt interface{}
		if err := rows.Scan(&id, &topic, &key, &payload, &errorMsg, &status, &retryCount, &createdAt); err != nil {
			return nil, fmt.Errorf("error scanning DLQ row: %w", err)
		}
		messages = append(messages, map[string]interface{}{
			"id":            id,
			"topic":         topic,
			"key":           key,
			"payload":       payload,
			"error_message": errorMsg,
			"status":        status,
			"retry_count":   retryCount,
			"created_at":    createdAt,
		})
	}
	return messages, rows.Err()
}

// RetryDLQMessage republishes a stored message and marks it resolved on
// success.
func RetryDLQMessage(messageID int) error {
	var key, payload string
	err := db.DB.QueryRow(
		`SELECT key, payload FROM dlq_messages WHERE id = $1 AND status = 'UNRESOLVED'`,
		messageID).Scan(&key, &payload)
	if err != nil {
		return fmt.Errorf("DLQ message %d not found or already resolved: %w", messageID, err)
	}

	var value interface{} = payload
	if err := Publish(key, value); err != nil {
		if _, uerr := db.DB.Exec(
			`UPDATE dlq_messages SET retry_count = retry_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
			messageID); uerr != nil {
			logger.Error("Error updating DLQ retry count for %d: %v", messageID, uerr)
		}
		return fmt.Errorf("republish failed for DLQ message %d: %w", messageID, err)
	}

	_, err = db.DB.Exec(
		`UPDATE dlq_messages SET status = 'RESOLVED', updated_at = CURRENT_TIMESTAMP WHERE id = $1`,
		messageID)
	if err != nil {
		return fmt.Errorf("error marking DLQ message %d resolved: %w", messageID, err)
	}
	return nil
}
