// internal/models/message.go
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// MessageKind records which shape a message arrived in.
type MessageKind string

const (
	KindText    MessageKind = "text"
	KindRecord  MessageKind = "record"
	KindUnknown MessageKind = "unknown"
)

// TextKeys lists the fields probed for message text, highest priority first.
var TextKeys = []string{"text", "message", "body", "content"}

// AuthorKeys lists the fields probed for the authoring member, highest priority first.
var AuthorKeys = []string{"memberName", "member_name", "sender", "fromName", "author", "user_name"}

// ErrUnknownEnvelope is returned when a collection payload is neither an array
// nor an object carrying one of EnvelopeKeys.
var ErrUnknownEnvelope = errors.New("unrecognized message collection envelope")

// EnvelopeKeys are the object keys that may wrap the message array.
var EnvelopeKeys = []string{"messages", "items"}

// Message is a chat message normalized once at ingestion. Records of any
// shape become a Message; unusable records become an empty KindUnknown value.
type Message struct {
	Kind    MessageKind
	Text    string
	Authors []string
}

// NewTextMessage wraps a bare string message.
func NewTextMessage(text string) Message {
	return Message{Kind: KindText, Text: text}
}

// Normalize converts a decoded record (string or field map) into a Message.
func Normalize(raw interface{}) Message {
	switch v := raw.(type) {
	case string:
		return NewTextMessage(v)
	case map[string]interface{}:
		return fromFields(v)
	case map[string]string:
		fields := make(map[string]interface{}, len(v))
		for k, s := range v {
			fields[k] = s
		}
		return fromFields(fields)
	case Message:
		return v
	default:
		return Message{Kind: KindUnknown}
	}
}

func fromFields(fields map[string]interface{}) Message {
	msg := Message{Kind: KindRecord}
	for _, key := range TextKeys {
		if s, ok := fields[key].(string); ok {
			msg.Text = s
			break
		}
	}
	for _, key := range AuthorKeys {
		if s, ok := fields[key].(string); ok && s != "" {
			msg.Authors = append(msg.Authors, s)
		}
	}
	return msg
}

// UnmarshalJSON accepts a JSON string or object. Any other valid JSON value
// yields an empty KindUnknown message rather than an error.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Normalize(raw)
	return nil
}

// MarshalJSON writes the normalized form back out as a record.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.Kind == KindText {
		return json.Marshal(m.Text)
	}
	out := map[string]interface{}{"text": m.Text}
	if len(m.Authors) > 0 {
		out["author"] = m.Authors[0]
	}
	return json.Marshal(out)
}

// MatchesMember reports whether the message was written by, or mentions, name.
// An empty name matches every message. Author fields are checked first; when
// none match, the text itself is searched since chat records often mention
// the member inline without tagging an author.
func (m Message) MatchesMember(name string) bool {
	if name == "" {
		return true
	}
	needle := strings.ToLower(name)
	for _, author := range m.Authors {
		if strings.Contains(strings.ToLower(author), needle) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(m.Text), needle)
}

// DecodeMessages decodes a collection payload: a bare array, or an object
// whose "messages" or "items" key holds the array.
func DecodeMessages(payload []byte) ([]Message, error) {
	items, _, err := DecodeEnvelope(payload)
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(items))
	for _, item := range items {
		var msg Message
		if err := json.Unmarshal(item, &msg); err != nil {
			msg = Message{Kind: KindUnknown}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// DecodeEnvelope splits a payload into raw items and the advertised total
// (-1 when the envelope carries none).
func DecodeEnvelope(payload []byte) ([]json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, -1, ErrUnknownEnvelope
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, -1, err
		}
		return items, -1, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, -1, err
	}

	total := -1
	if rawTotal, ok := envelope["total"]; ok {
		var n int
		if err := json.Unmarshal(rawTotal, &n); err == nil {
			total = n
		}
	}

	for _, key := range EnvelopeKeys {
		rawItems, ok := envelope[key]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(rawItems, &items); err != nil {
			return nil, -1, err
		}
		return items, total, nil
	}
	return nil, -1, ErrUnknownEnvelope
}
