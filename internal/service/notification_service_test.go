package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dirkit/user-directory/internal/config"
	"github.com/dirkit/user-directory/internal/events"
)

func TestNotificationServiceHandlesAccountEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/users",
	})
	svc.RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventUserRegistered, "u1",
		events.UserRegisteredPayload{Username: "a@x.com"})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventUserUpdated, "u1",
		events.UserUpdatedPayload{Fields: []string{"firstName"}})))

	assert.Equal(t, 1, logs.FilterMessage("UserRegistered").Len())
	assert.Equal(t, 1, logs.FilterMessage("UserUpdated").Len())

	emails := logs.FilterMessage("sendWelcomeEmailStub").All()
	require.Len(t, emails, 1)
	assert.Equal(t, "a@x.com", emails[0].ContextMap()["to"])
	assert.Equal(t, 2, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationServiceSkipsUnconfiguredChannels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventUserRegistered, "u1",
		events.UserRegisteredPayload{Username: "a@x.com"})))

	assert.Equal(t, 1, logs.Len())
}
