package message

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New(EventType_EVENT_TYPE_PUBLISHED, "protobuf.large.LargeOpenEnum", "s3://bucket/large.json")

	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Contains(t, e.Generator, "openenum/")
	assert.NoError(t, e.Validate())
}

func TestDecode(t *testing.T) {
	e := New(EventType_EVENT_TYPE_RETIRED, "demo.Level", "")
	blob, err := json.Marshal(e)
	require.NoError(t, err)

	t.Run("Raw body", func(t *testing.T) {
		got, err := Decode(blob)
		require.NoError(t, err)
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, EventType_EVENT_TYPE_RETIRED, got.Type)
		assert.Equal(t, "demo.Level", got.Enum)
	})

	t.Run("SNS notification", func(t *testing.T) {
		wrapped, err := json.Marshal(map[string]string{
			"Type":     "Notification",
			"TopicArn": "arn:aws:sns:eu-west-2:123456789012:enums",
			"Message":  string(blob),
		})
		require.NoError(t, err)

		got, err := Decode(wrapped)
		require.NoError(t, err)
		assert.Equal(t, e.ID, got.ID)
	})

	t.Run("Types from newer publishers", func(t *testing.T) {
		got, err := Decode([]byte(`{
			"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			"type": "EVENT_TYPE_DEPRECATED",
			"enum": "demo.Level",
			"timestamp": "2024-05-01T10:00:00Z"
		}`))
		require.NoError(t, err)
		assert.Equal(t, EventType_UNRECOGNIZED, got.Type)

		_, err = got.Type.Number()
		assert.Error(t, err)
	})

	t.Run("Invalid events", func(t *testing.T) {
		_, err := Decode([]byte(`{"type": "EVENT_TYPE_PUBLISHED", "enum": "demo.Level"}`))
		assert.EqualError(t, err, "event ID is empty")

		_, err = Decode([]byte(`{"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8"}`))
		assert.EqualError(t, err, "event 6ba7b810-9dad-11d1-80b4-00c04fd430c8 does not name an enum")

		_, err = Decode([]byte(`[]`))
		assert.Error(t, err)
	})
}

func TestEventType_Unrecognized(t *testing.T) {
	_, err := json.Marshal(&Event{ID: uuid.New(), Type: EventType_UNRECOGNIZED, Enum: "demo.Level"})
	assert.Error(t, err)

	assert.Equal(t, []EventType{
		EventType_EVENT_TYPE_UNSPECIFIED,
		EventType_EVENT_TYPE_PUBLISHED,
		EventType_EVENT_TYPE_RETIRED,
		EventType_UNRECOGNIZED,
	}, EventTypeValues())
}
