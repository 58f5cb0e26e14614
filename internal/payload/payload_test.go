package payload

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONObject(t *testing.T) {
	body := []byte(`{"event":"test_event","timestamp":1234,"data":{"message":"hi"}}`)

	p, err := Decode("application/json", body, nil)
	require.NoError(t, err)

	assert.Equal(t, KindJSON, p.Kind)
	assert.Equal(t, "object", p.TypeTag())

	value, ok := p.Value.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "test_event", value["event"])
}

func TestDecode_JSONContentTypeWithCharset(t *testing.T) {
	p, err := Decode("Application/JSON; charset=utf-8", []byte(`[1,2,3]`), nil)
	require.NoError(t, err)

	assert.Equal(t, KindJSON, p.Kind)
	assert.Equal(t, "array", p.TypeTag())
}

func TestDecode_JSONScalars(t *testing.T) {
	tests := []struct {
		name string
		body string
		tag  string
	}{
		{"string", `"hello"`, "string"},
		{"number", `42.5`, "number"},
		{"boolean", `true`, "boolean"},
		{"null", `null`, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode("application/json", []byte(tt.body), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.tag, p.TypeTag())
		})
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode("application/json", []byte("invalid json data"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecode_EmptyJSONBody(t *testing.T) {
	_, err := Decode("application/json", []byte{}, nil)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecode_RawText(t *testing.T) {
	p, err := Decode("text/plain", []byte("hello webhook"), nil)
	require.NoError(t, err)

	assert.Equal(t, KindRaw, p.Kind)
	assert.Equal(t, "hello webhook", p.Text)
	assert.Equal(t, "raw", p.TypeTag())
	assert.Nil(t, p.Form)
}

func TestDecode_EmptyRawBody(t *testing.T) {
	p, err := Decode("text/plain", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, KindRaw, p.Kind)
	assert.Empty(t, p.Text)
}

func TestDecode_InvalidUTF8Replaced(t *testing.T) {
	p, err := Decode("application/octet-stream", []byte{0xff, 0xfe, 'o', 'k'}, nil)
	require.NoError(t, err)

	assert.Contains(t, p.Text, "ok")
	assert.Contains(t, p.Text, "�")
}

func TestDecode_FormFields(t *testing.T) {
	form := url.Values{
		"name":   []string{"alice"},
		"action": []string{"first", "last"},
	}

	p, err := Decode("application/x-www-form-urlencoded", []byte("name=alice&action=last"), form)
	require.NoError(t, err)

	assert.Equal(t, "form", p.TypeTag())
	assert.Equal(t, "alice", p.Form["name"])
	// Repeated fields collapse to the last value.
	assert.Equal(t, "last", p.Form["action"])
}

func TestDecode_Idempotent(t *testing.T) {
	body := []byte(`{"a":1,"b":[true,null]}`)

	first, err := Decode("application/json", body, nil)
	require.NoError(t, err)
	second, err := Decode("application/json", body, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSummarize(t *testing.T) {
	p, err := Decode("application/json", []byte(`{"k":"v"}`), nil)
	require.NoError(t, err)

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	s := Summarize(p, at)

	assert.Equal(t, "2026-03-14T09:26:53Z", s.ReceivedAt)
	assert.Equal(t, "object", s.PayloadType)
	assert.Equal(t, len(`{"k":"v"}`), s.PayloadSize)
}

func TestSize_Raw(t *testing.T) {
	p, err := Decode("text/plain", []byte("12345"), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Size())
}
