// Command notifier consume los eventos de pedidos (Kafka o RabbitMQ) y notifica al cliente.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/jhoicas/tienda-api/internal/application/notification"
	infraamqp "github.com/jhoicas/tienda-api/internal/infrastructure/amqp"
	infrakafka "github.com/jhoicas/tienda-api/internal/infrastructure/kafka"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name + "-notifier",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := notification.NewHandler(notification.LogNotifier{Log: log}, log)

	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		consumer := infrakafka.NewConsumer(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic, cfg.Events.ConsumerGroup, log)
		defer consumer.Close()
		log.Info().Strs("brokers", cfg.Events.KafkaBrokers).Str("topic", cfg.Events.KafkaTopic).Msg("notificador escuchando")
		err = consumer.Consume(ctx, handler.HandleEvent)
	case config.EventsDriverAMQP:
		consumer, cErr := infraamqp.NewConsumer(cfg.Events.AMQPURL, cfg.Events.AMQPQueue, log)
		if cErr != nil {
			log.Fatal().Err(cErr).Msg("conexión a RabbitMQ")
		}
		defer consumer.Close()
		log.Info().Str("queue", cfg.Events.AMQPQueue).Msg("notificador escuchando")
		err = consumer.Consume(ctx, handler.HandleEvent)
	default:
		log.Fatal().Str("driver", cfg.Events.Driver).Msg("EVENTS_DRIVER debe ser kafka o amqp para el notificador")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("consumidor finalizado con error")
	}
	log.Info().Msg("notificador detenido")
}
