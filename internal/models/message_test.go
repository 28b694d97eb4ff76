package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Normalization
// ==========================

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      interface{}
		expected Message
	}{
		{
			name:     "plain string",
			raw:      "Alice has 2 cars",
			expected: Message{Kind: KindText, Text: "Alice has 2 cars"},
		},
		{
			name:     "text key",
			raw:      map[string]interface{}{"text": "hello", "memberName": "Alice"},
			expected: Message{Kind: KindRecord, Text: "hello", Authors: []string{"Alice"}},
		},
		{
			name:     "text key wins over later keys",
			raw:      map[string]interface{}{"content": "later", "message": "earlier"},
			expected: Message{Kind: KindRecord, Text: "earlier"},
		},
		{
			name:     "non-string text skipped",
			raw:      map[string]interface{}{"text": 42, "body": "from body"},
			expected: Message{Kind: KindRecord, Text: "from body"},
		},
		{
			name: "authors kept in priority order",
			raw: map[string]interface{}{
				"author":     "Bob",
				"sender":     "Robert",
				"user_name":  "bob_k",
				"memberName": nil,
			},
			expected: Message{Kind: KindRecord, Authors: []string{"Robert", "Bob", "bob_k"}},
		},
		{
			name:     "string map",
			raw:      map[string]string{"body": "hi", "fromName": "Carol"},
			expected: Message{Kind: KindRecord, Text: "hi", Authors: []string{"Carol"}},
		},
		{
			name:     "unsupported shape",
			raw:      12.5,
			expected: Message{Kind: KindUnknown},
		},
		{
			name:     "nil",
			raw:      nil,
			expected: Message{Kind: KindUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw))
		})
	}
}

func TestMessage_UnmarshalJSON(t *testing.T) {
	var messages []Message
	err := json.Unmarshal([]byte(`["plain", {"text": "rec", "author": "Dan"}, 7, [1, 2]]`), &messages)
	require.NoError(t, err)
	require.Len(t, messages, 4)

	assert.Equal(t, NewTextMessage("plain"), messages[0])
	assert.Equal(t, Message{Kind: KindRecord, Text: "rec", Authors: []string{"Dan"}}, messages[1])
	assert.Equal(t, KindUnknown, messages[2].Kind)
	assert.Equal(t, KindUnknown, messages[3].Kind)
}

func TestMessage_UnmarshalJSON_InvalidJSON(t *testing.T) {
	var msg Message
	assert.Error(t, msg.UnmarshalJSON([]byte(`{"text":`)))
}

// ==========================
// Member matching
// ==========================

func TestMessage_MatchesMember(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		member   string
		expected bool
	}{
		{"empty name is wildcard", Message{Kind: KindUnknown}, "", true},
		{"plain string substring", NewTextMessage("alice booked a flight"), "Alice", true},
		{"plain string miss", NewTextMessage("bob booked a flight"), "Alice", false},
		{"author match", Message{Kind: KindRecord, Text: "my trip", Authors: []string{"Alice Smith"}}, "alice", true},
		{"second author key", Message{Kind: KindRecord, Text: "x", Authors: []string{"Zed", "ALICE"}}, "Alice", true},
		{"falls back to text", Message{Kind: KindRecord, Text: "Trip with Alice", Authors: []string{"Bob"}}, "Alice", true},
		{"no author no text", Message{Kind: KindRecord, Authors: []string{"Bob"}}, "Alice", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.msg.MatchesMember(tt.member))
		})
	}
}

// ==========================
// Collection decoding
// ==========================

func TestDecodeMessages(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		texts   []string
		wantErr bool
	}{
		{"bare array", `["a", {"text": "b"}]`, []string{"a", "b"}, false},
		{"messages envelope", `{"messages": [{"message": "c"}]}`, []string{"c"}, false},
		{"items envelope", `{"total": 1, "items": [{"message": "d", "user_name": "Eve"}]}`, []string{"d"}, false},
		{"unknown envelope", `{"data": []}`, nil, true},
		{"empty payload", `   `, nil, true},
		{"broken json", `[`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages, err := DecodeMessages([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			texts := make([]string, 0, len(messages))
			for _, m := range messages {
				texts = append(texts, m.Text)
			}
			assert.Equal(t, tt.texts, texts)
		})
	}
}

func TestDecodeEnvelope_Total(t *testing.T) {
	items, total, err := DecodeEnvelope([]byte(`{"total": 120, "items": ["x"]}`))
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 120, total)

	_, total, err = DecodeEnvelope([]byte(`["x"]`))
	require.NoError(t, err)
	assert.Equal(t, -1, total)
}
