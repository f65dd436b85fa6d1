package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/custom-catalogs/adapters/event"
	"github.com/khoahotran/custom-catalogs/adapters/metadata"
	"github.com/khoahotran/custom-catalogs/adapters/persistence"
	enrichUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/enrich"
	"github.com/khoahotran/custom-catalogs/internal/config"
	"github.com/khoahotran/custom-catalogs/pkg/logger"
)

func main() {
	fmt.Println("Starting Custom Catalogs Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	// TMDB Provider
	tmdbProvider, err := metadata.NewTMDBAdapter(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize TMDB adapter: %v", err)
	}

	// Repositories
	mediaRepo := persistence.NewPostgresMediaRepo(dbPool, appLogger)

	// Worker Use Case
	enrichMediaUC := enrichUC.NewEnrichMediaUseCase(mediaRepo, tmdbProvider)

	// Kafka Consumer
	enrichConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicMediaEnrich,
		GroupID:  "media-enricher-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer enrichConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicMediaEnrich)

	ctx := context.Background()
	for {
		msg, err := enrichConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		log.Printf("Received message from [Topic: %s], [Key: %s]", msg.Topic, string(msg.Key))

		var payload event.MediaEnrichPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			commitMessage(enrichConsumer, msg)
			continue
		}

		log.Printf("Processing enrich request for MediaItemID: %s", payload.MediaItemID)

		err = enrichMediaUC.Execute(ctx, payload)
		if err != nil {
			log.Printf("ERROR: Failed to enrich MediaItemID %s: %v", payload.MediaItemID, err)
			continue
		}

		commitMessage(enrichConsumer, msg)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}
