package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/procurehub/procurement-service/internal/utils"
)

const (
	// ConversionStream carries save events for the background converter that
	// renders uploaded documents into previewable formats.
	ConversionStream = "sow:conversion"
	// MaxStreamLength caps the stream so an idle converter cannot grow it
	// without bound.
	MaxStreamLength = 10000
)

// ConversionEvent is what the converter workers consume.
type ConversionEvent struct {
	VersionID  uuid.UUID `json:"version_id"`
	ContentKey string    `json:"content_key"`
	FileName   string    `json:"file_name"`
	SavedAt    time.Time `json:"saved_at"`
}

// Publisher pushes conversion events onto a Redis stream. A nil client
// disables publishing, so environments without Redis still save documents.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishConversion enqueues a conversion event. Failures are logged, never
// returned: a save must not fail because the preview pipeline is down.
func (p *Publisher) PublishConversion(ctx context.Context, ev ConversionEvent) {
	if p == nil || p.client == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to marshal conversion event")
		return
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: ConversionStream,
		MaxLen: MaxStreamLength,
		Approx: true,
		Values: map[string]interface{}{
			"data":      string(payload),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		utils.Logger.WithError(err).WithField("versionId", ev.VersionID).Error("Failed to publish conversion event")
	}
}
