package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
)

// Job types carried in refresh messages.
const (
	JobPatternRefresh = "pattern_refresh"
	JobHealthCheck    = "health_check"
)

// RefreshMessage is the Pub/Sub payload that triggers worker jobs.
type RefreshMessage struct {
	JobType string `json:"job_type"`
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	RefreshJob       *RefreshJob
	Logger           zerolog.Logger
}

// PubSubHandler consumes refresh messages and dispatches them to the job.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	refreshJob       *RefreshJob
	logger           zerolog.Logger
}

// NewPubSubHandler creates a Pub/Sub handler bound to the subscription.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)
	subscriber.ReceiveSettings.MaxOutstandingMessages = 4
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		refreshJob:       cfg.RefreshJob,
		logger:           cfg.Logger,
	}, nil
}

// Start blocks, processing messages until the context is cancelled.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close releases the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startedAt := time.Now()
	logger := h.logger.With().Str("message_id", msg.ID).Logger()

	var refreshMsg RefreshMessage
	if err := json.Unmarshal(msg.Data, &refreshMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch refreshMsg.JobType {
	case JobPatternRefresh:
		err = h.handlePatternRefresh(ctx)
	case JobHealthCheck:
		err = h.handleHealthCheck(ctx)
	default:
		// Unknown job types are acked so they are not redelivered forever.
		logger.Warn().Str("job_type", refreshMsg.JobType).Msg("unknown job type")
		msg.Ack()
		return
	}

	if err != nil {
		logger.Error().Err(err).Str("job_type", refreshMsg.JobType).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", refreshMsg.JobType).
		Dur("duration", time.Since(startedAt)).
		Msg("job completed")
	msg.Ack()
}

func (h *PubSubHandler) handlePatternRefresh(ctx context.Context) error {
	result := h.refreshJob.Run(ctx)

	// A partially failed run is retried only when failures dominate.
	if result.Failed > result.Warmed {
		return fmt.Errorf("too many warm-up failures: %d/%d", result.Failed, result.TotalPoints)
	}
	return nil
}

// handleHealthCheck warms a single point to verify the pattern pipeline
// end to end.
func (h *PubSubHandler) handleHealthCheck(ctx context.Context) error {
	job := NewRefreshJob(RefreshJobConfig{
		Config: RefreshConfig{
			Targets: []RefreshTarget{{
				Name:   "health-check",
				Points: []geo.Point{{Lat: 52.3676, Lng: 4.9041}},
			}},
			Concurrency: 1,
			Timeout:     10 * time.Second,
			HoursAhead:  1,
		},
		Patterns: h.refreshJob.patterns,
		Logger:   h.logger,
	})

	result := job.Run(ctx)
	if result.Failed > 0 {
		return fmt.Errorf("health check failed: %d errors", result.Failed)
	}
	return nil
}
