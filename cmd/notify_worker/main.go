package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/qa-community-api/config"
	"github.com/oksasatya/qa-community-api/internal/application"
	"github.com/oksasatya/qa-community-api/internal/container"
	"github.com/oksasatya/qa-community-api/pkg/helpers"
	"github.com/oksasatya/qa-community-api/pkg/mailer"
)

// Consumes answer.created events and emails the question's author.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	logger := helpers.NewLogger(cfg.AppName+"-notify", cfg.Env)

	var m application.Mailer = mailer.LogSender{Logger: logger}
	if cfg.MailSendEnabled {
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			log.Fatal("Mailgun not configured")
		}
		m = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		logger.Info("MAIL_SEND_ENABLED=false; notifications are logged, not sent")
	}

	// The worker only reads; it never publishes.
	amqpURL := cfg.RabbitMQURL
	cfg.RabbitMQURL, cfg.RedisAddr = "", ""
	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() { _ = c.Close(ctx) }()
	notifier := application.NewAnswerNotifier(c.Repos.Questions, c.Repos.Users, m, cfg.AppName, cfg.AppURL, logger)

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := helpers.DeclareTopicExchange(ch, cfg.RabbitMQExchange); err != nil {
		log.Fatalf("exchange declare: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQNotifyQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}
	if err := ch.QueueBind(cfg.RabbitMQNotifyQueue, application.EventAnswerCreated, cfg.RabbitMQExchange, false, nil); err != nil {
		log.Fatalf("queue bind: %v", err)
	}
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQNotifyQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handle(ctx, notifier, logger, msg)
		}
		close(done)
	}()

	logger.Infof("notify worker listening on queue=%s", cfg.RabbitMQNotifyQueue)
	<-stop
	logger.Info("shutting down...")
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

func handle(ctx context.Context, n *application.AnswerNotifier, logger *logrus.Logger, msg amqp.Delivery) {
	var ev application.AnswerCreatedEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		helpers.LogError(logger, "bad message", err, logrus.Fields{"message_id": msg.MessageId})
		_ = msg.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := n.Handle(c, ev); err != nil {
		helpers.LogError(logger, "notification failed", err, logrus.Fields{"answer_id": ev.AnswerID})
		// Redelivered messages that fail again are dropped.
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
}
