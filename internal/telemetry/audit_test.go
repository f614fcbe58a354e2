package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"collab-service/internal/mocks"
	"collab-service/internal/telemetry"
)

func TestAuditEmitterEmit(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.collab", "collab-service", "test")
	userID := int64(5)

	publisher.On("Publish", mock.Anything, "audit.collab", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(telemetry.AuditEnvelope)
		if !ok {
			return false
		}
		return envelope.SchemaVersion == 1 &&
			envelope.EventType == "audit_log" &&
			envelope.Service == "collab-service" &&
			envelope.Environment == "test" &&
			envelope.RequestID == "req-1" &&
			envelope.UserID != nil && *envelope.UserID == 5 &&
			envelope.Payload.Level == telemetry.LevelWarn &&
			envelope.Payload.Text == "workspace deleted" &&
			envelope.OccurredAt != ""
	})).Return(nil).Once()

	emitter.Emit(context.Background(), telemetry.LevelWarn, "workspace deleted", "req-1", &userID)
	publisher.AssertExpectations(t)
}

func TestAuditEmitterEmitWithoutUser(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.collab", "collab-service", "test")

	publisher.On("Publish", mock.Anything, "audit.collab", mock.MatchedBy(func(event any) bool {
		envelope, ok := event.(telemetry.AuditEnvelope)
		return ok && envelope.UserID == nil && envelope.Payload.Level == telemetry.LevelInfo
	})).Return(nil).Once()

	emitter.Emit(context.Background(), telemetry.LevelInfo, "audit test", "req-2", nil)
	publisher.AssertExpectations(t)
}

func TestAuditEmitterPublishFailureIsSwallowed(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.collab", "collab-service", "test")

	publisher.On("Publish", mock.Anything, "audit.collab", mock.Anything).
		Return(assert.AnError).Once()

	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), telemetry.LevelInfo, "noted", "req-3", nil)
	})
	publisher.AssertExpectations(t)
}

func TestAuditEmitterNilIsSilent(t *testing.T) {
	var emitter *telemetry.AuditEmitter
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), telemetry.LevelInfo, "dropped", "req-4", nil)
	})

	publisher := new(mocks.PublisherMock)
	withoutPublisher := telemetry.NewAuditEmitter(nil, "audit.collab", "collab-service", "test")
	require.NotPanics(t, func() {
		withoutPublisher.Emit(context.Background(), telemetry.LevelInfo, "dropped", "req-5", nil)
	})
	publisher.AssertNotCalled(t, "Publish")
}
