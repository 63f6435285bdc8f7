package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatermillEventPublisher_PublishQuizEvent(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), "quiz-progress")
	require.NoError(t, err)

	publisher := NewWatermillEventPublisher(pubSub, "quiz-progress", discardLogger())

	score := 5
	event := NewQuizEvent(EventQuestionCompleted, QuestionAttemptEvent{
		SessionID:    "session-1",
		QuestionID:   7,
		Correct:      true,
		AttemptsUsed: 1,
		Score:        &score,
		Verdicts:     models.VerdictMap{1: models.VerdictCorrect, 2: models.VerdictNone},
	})
	require.NoError(t, publisher.PublishQuizEvent(context.Background(), event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(EventQuestionCompleted), msg.Metadata.Get("event_type"))
		assert.Equal(t, eventSource, msg.Metadata.Get("source"))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		data := decoded["data"].(map[string]any)
		assert.Equal(t, "session-1", data["session_id"])
		assert.Equal(t, float64(5), data["score"])
		verdicts := data["verdicts"].(map[string]any)
		assert.Equal(t, "correct", verdicts["1"])
		assert.Nil(t, verdicts["2"])
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(discardLogger())

	require.NoError(t, publisher.PublishQuizEvent(context.Background(), NewQuizEvent(EventQuestionAttempted, nil)))
	require.NoError(t, publisher.PublishQuizEvent(context.Background(), NewQuizEvent(EventSessionFinished, nil)))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventQuestionAttempted, published[0].Type)
	assert.Equal(t, EventSessionFinished, published[1].Type)
	assert.NotEqual(t, published[0].ID, published[1].ID)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
	assert.NoError(t, publisher.Close())
}

func TestQuestionEventType(t *testing.T) {
	assert.Equal(t, EventQuestionCompleted, QuestionEventType(models.ProgressCompleted))
	assert.Equal(t, EventQuestionExhausted, QuestionEventType(models.ProgressExhausted))
	assert.Equal(t, EventQuestionAttempted, QuestionEventType(models.ProgressInProgress))
}
