package envelope

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFrozenClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestSuccess(t *testing.T) {
	withFrozenClock(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	env := Success("Webhook processed successfully", map[string]int{"n": 1})

	assert.Equal(t, StatusSuccess, env.Status)
	assert.Equal(t, "Webhook processed successfully", env.Message)
	assert.Equal(t, "2026-01-02T03:04:05Z", env.Timestamp)
	assert.NotNil(t, env.Data)
}

func TestError_NoData(t *testing.T) {
	env := Error("Invalid JSON format")

	assert.Equal(t, StatusError, env.Status)
	assert.Nil(t, env.Data)

	_, err := time.Parse(time.RFC3339, env.Timestamp)
	assert.NoError(t, err)
}

func TestHealthy(t *testing.T) {
	env := Healthy("gateway is running")
	assert.Equal(t, StatusHealthy, env.Status)
}

func TestWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, 400, Error("Invalid JSON format"))

	assert.Equal(t, 400, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var decoded Envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&decoded))
	assert.Equal(t, StatusError, decoded.Status)
}

func TestWrite_OmitsNilData(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, 500, Error("Internal server error"))

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&decoded))
	_, hasData := decoded["data"]
	assert.False(t, hasData)
}

func TestTimestampUTC(t *testing.T) {
	withFrozenClock(t, time.Date(2026, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600)))

	env := Success("ok", nil)
	assert.Equal(t, "2026-06-01T10:00:00Z", env.Timestamp)
}
