package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookgate-io/hookgate/internal/logging"
	"github.com/hookgate-io/hookgate/internal/models"
)

func discardLogger() *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func githubEvent(eventType string) models.ProviderEvent {
	return models.ProviderEvent{
		Provider:   "github",
		Type:       eventType,
		ReceivedAt: time.Now().UTC(),
	}
}

func TestClassify_Totality(t *testing.T) {
	tests := []struct {
		eventType string
		want      EventKind
	}{
		{"push", EventPush},
		{"pull_request", EventPullRequest},
		{"issues", EventOther},
		{"release", EventOther},
		{"", EventOther},
		{"PUSH", EventOther}, // exact string match only
	}

	for _, tt := range tests {
		t.Run("event_"+tt.eventType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.eventType))
		})
	}
}

func TestDispatch_Push(t *testing.T) {
	d := New(discardLogger())

	outcome, err := d.Dispatch(context.Background(), githubEvent("push"))
	require.NoError(t, err)

	assert.True(t, outcome.Handled)
	assert.Equal(t, EventPush, outcome.Kind)
	assert.Contains(t, outcome.Message, "push")
}

func TestDispatch_PullRequest(t *testing.T) {
	d := New(discardLogger())

	outcome, err := d.Dispatch(context.Background(), githubEvent("pull_request"))
	require.NoError(t, err)

	assert.True(t, outcome.Handled)
	assert.Contains(t, outcome.Message, "pull_request")
}

func TestDispatch_UnknownEventAccepted(t *testing.T) {
	d := New(discardLogger())

	outcome, err := d.Dispatch(context.Background(), githubEvent("workflow_run"))
	require.NoError(t, err)

	assert.False(t, outcome.Handled)
	assert.Contains(t, outcome.Message, "Unhandled")
	assert.Contains(t, outcome.Message, "workflow_run")
}

func TestDispatch_MissingEventType(t *testing.T) {
	d := New(discardLogger())

	outcome, err := d.Dispatch(context.Background(), githubEvent(""))
	require.NoError(t, err)

	assert.False(t, outcome.Handled)
	assert.Contains(t, outcome.Message, "no event type header")
}

func TestDispatch_CustomHandler(t *testing.T) {
	var handled models.ProviderEvent
	d := New(discardLogger(), WithHandler(EventPush, func(_ context.Context, event models.ProviderEvent) error {
		handled = event
		return nil
	}))

	event := githubEvent("push")
	event.DeliveryID = "delivery-42"

	_, err := d.Dispatch(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "delivery-42", handled.DeliveryID)
}

func TestDispatch_HandlerError(t *testing.T) {
	handlerErr := errors.New("downstream exploded")
	d := New(discardLogger(), WithHandler(EventPush, func(context.Context, models.ProviderEvent) error {
		return handlerErr
	}))

	_, err := d.Dispatch(context.Background(), githubEvent("push"))
	require.Error(t, err)
	assert.ErrorIs(t, err, handlerErr)
}

type recordingForwarder struct {
	events []models.ProviderEvent
	kinds  []EventKind
}

func (f *recordingForwarder) Forward(_ context.Context, event models.ProviderEvent, kind EventKind) {
	f.events = append(f.events, event)
	f.kinds = append(f.kinds, kind)
}

func TestDispatch_ForwardsHandledEvents(t *testing.T) {
	fwd := &recordingForwarder{}
	d := New(discardLogger(), WithForwarder(fwd))

	_, err := d.Dispatch(context.Background(), githubEvent("push"))
	require.NoError(t, err)
	require.Len(t, fwd.events, 1)
	assert.Equal(t, EventPush, fwd.kinds[0])
}

func TestDispatch_DoesNotForwardUnhandled(t *testing.T) {
	fwd := &recordingForwarder{}
	d := New(discardLogger(), WithForwarder(fwd))

	_, err := d.Dispatch(context.Background(), githubEvent("star"))
	require.NoError(t, err)
	assert.Empty(t, fwd.events)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "push", EventPush.String())
	assert.Equal(t, "pull_request", EventPullRequest.String())
	assert.Equal(t, "other", EventOther.String())
}
