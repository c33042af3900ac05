package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGradedEventPublisherBroadcastsOverRedis(t *testing.T) {
	_, client := newTestRedis(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "assessment:submissions:graded")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewGradedEventPublisher(client, nil, "assessment")
	gradedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, publisher.PublishGraded(ctx, SubmissionGradedEvent{
		SubmissionID: 7,
		StudentID:    3,
		ExamID:       2,
		Score:        63.15,
		GradedAt:     gradedAt,
	}))

	select {
	case msg := <-sub.Channel():
		var event SubmissionGradedEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		require.Equal(t, uint(7), event.SubmissionID)
		require.Equal(t, 63.15, event.Score)
		require.True(t, gradedAt.Equal(event.GradedAt))
		require.NotEmpty(t, event.Source)
	case <-time.After(2 * time.Second):
		t.Fatal("graded event was not delivered")
	}
}

func TestGradedEventPublisherWithoutTransports(t *testing.T) {
	publisher := NewGradedEventPublisher(nil, nil, "assessment")
	require.NoError(t, publisher.PublishGraded(context.Background(), SubmissionGradedEvent{SubmissionID: 1}))

	unnamed := NewGradedEventPublisher(nil, nil, "")
	require.NoError(t, unnamed.PublishGraded(context.Background(), SubmissionGradedEvent{SubmissionID: 1}))
}

func TestGradedEventSubjectNaming(t *testing.T) {
	publisher := NewGradedEventPublisher(nil, nil, "gema:assessment").(*gradedEventPublisher)
	require.Equal(t, "gema:assessment:submissions:graded", publisher.redisChannel)
	require.Equal(t, "gema.assessment.submissions.graded", publisher.natsSubject)
}
