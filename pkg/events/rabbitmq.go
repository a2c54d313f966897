package events

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// RabbitMQPublisher implements the Publisher interface using RabbitMQ.
type RabbitMQPublisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

// NewRabbitMQPublisherConfig contains options for creating a new RabbitMQPublisher.
type NewRabbitMQPublisherConfig struct {
	URL       string
	QueueName string
}

// NewRabbitMQPublisher connects to RabbitMQ and declares the ledger event queue.
func NewRabbitMQPublisher(cfg NewRabbitMQPublisherConfig) (Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("Failed to open a channel: %v", err)
		conn.Close() // Close connection if channel opening fails
		return nil, err
	}

	queueName := cfg.QueueName
	if queueName == "" {
		queueName = "wallet.ledger"
	}
	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		log.Printf("Failed to declare queue %s: %v", queueName, err)
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Println("Successfully connected to RabbitMQ and declared the ledger queue")
	return &RabbitMQPublisher{conn: conn, channel: ch, queueName: queueName}, nil
}

// Publish sends a ledger event to the queue as a persistent JSON message.
func (p *RabbitMQPublisher) Publish(event LedgerEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	err = p.channel.Publish(
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Make message persistent
		})
	if err != nil {
		log.Printf("Failed to publish ledger event to queue %s: %v", p.queueName, err)
		return err
	}
	return nil
}

// Close closes the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
