package services

import (
	"permit-portal/services/kafka"
)

func InitProducer() {
	kafka.InitProducer()
}

func Publish(key string, value interface{}) error {
	return kafka.Publish(key, value)
}

func IsConnected() bool {
	return kafka.IsConnected()
}

func Close() error {
	return kafka.Close()
}

func GetDLQMessages(limit int) ([]map[string]interface{}, error) {
	return kafka.GetDLQMessages(limit)
}

func RetryDLQMessage(messageID int) error {
	return kafka.RetryDLQMessage(messageID)
}
