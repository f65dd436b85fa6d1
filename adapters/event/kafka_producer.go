package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/custom-catalogs/internal/config"
	"github.com/khoahotran/custom-catalogs/internal/domain/media"
)

const (
	TopicMediaEnrich = "media.enrich"
)

// MediaEnrichPayload asks the worker to fetch TMDB details for one stored
// media item.
type MediaEnrichPayload struct {
	MediaItemID uuid.UUID  `json:"media_item_id"`
	TmdbID      string     `json:"tmdb_id"`
	Kind        media.Kind `json:"kind"`
}

type KafkaProducerClient struct {
	MediaEnrichWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	enrichWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicMediaEnrich,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		MediaEnrichWriter: enrichWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishMediaEnrichEvent(ctx context.Context, payload MediaEnrichPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal enrich payload failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.MediaItemID.String()),
		Value: value,
	}
	if err := c.MediaEnrichWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write enrich message failed: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.MediaEnrichWriter != nil {
		c.MediaEnrichWriter.Close()
	}
}
