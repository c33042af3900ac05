package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// SubmissionGradedEvent is broadcast after a submission commits with its score.
type SubmissionGradedEvent struct {
	Source       string    `json:"source"`
	SubmissionID uint      `json:"submission_id"`
	StudentID    uint      `json:"student_id"`
	ExamID       uint      `json:"exam_id"`
	Score        float64   `json:"score"`
	GradedAt     time.Time `json:"graded_at"`
}

// GradedEventPublisher announces graded submissions to other systems.
type GradedEventPublisher interface {
	PublishGraded(ctx context.Context, event SubmissionGradedEvent) error
}

type gradedEventPublisher struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	nodeID       string
}

// NewGradedEventPublisher publishes to a Redis channel and a NATS subject
// derived from channelBase. Either transport may be nil.
func NewGradedEventPublisher(redisClient *redis.Client, natsConn *nats.Conn, channelBase string) GradedEventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":submissions:graded"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".submissions.graded"
	}

	return &gradedEventPublisher{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		nodeID:       uuid.NewString(),
	}
}

func (p *gradedEventPublisher) PublishGraded(ctx context.Context, event SubmissionGradedEvent) error {
	event.Source = p.nodeID

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if p.redis != nil && p.redisChannel != "" {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if p.nats != nil && p.natsSubject != "" {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}
