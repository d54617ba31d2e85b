package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/email"
	"github.com/Domenick1991/dirabasi/internal/kafka"
	"github.com/Domenick1991/dirabasi/internal/utils"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
)

const senderAddress = "tickets@dirabasi.co.tz"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	utils.InitLogging()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("worker needs kafka.brokers")
	}

	topic := cfg.Kafka.NotificationsTopic
	if topic == "" {
		topic = cfg.Kafka.BookingEventsTopic
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
	defer consumer.Close()

	emailSender := email.NewSender(senderAddress)

	log.Printf("worker consuming %s", topic)
	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		event, err := kafka.DecodeBookingEvent(msg)
		if err != nil {
			log.Printf("decode event error: %v", err)
			return nil
		}
		if event.Type != kafka.EventBookingPaid {
			return nil
		}
		if err := emailSender.Send(ctx, event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("send email for %s: %v", event.Reference, err)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("consumer stopped: %v", err)
	}
	log.Printf("worker stopped")
}
