// Package stream decodes the server-sent event stream of a chat completion.
//
// Each meaningful line has the form "data: <json>" and the stream ends with
// "data: [DONE]". Decoding is lazy: a line is only read from the source when
// the consumer asks for the next event.
package stream

import (
	"bytes"
	"iter"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// DataPrefix marks an event payload line.
	DataPrefix = "data:"
	// DonePayload is the payload of the termination sentinel.
	DonePayload = "[DONE]"
)

// State is the state of a Decoder.
type State int

const (
	StateStreaming  State = iota // Accepting lines
	StateTerminated              // Sentinel seen, every further line is ignored
)

func (s State) String() string {
	switch s {
	case StateStreaming:
		return "streaming"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Event is one decoded JSON object from the stream.
type Event struct {
	Raw []byte
}

// Delta returns choices[0].delta.content. ok is false when the field is
// missing or null.
func (e Event) Delta() (content string, ok bool) {
	r := gjson.GetBytes(e.Raw, "choices.0.delta.content")
	if !r.Exists() || r.Type == gjson.Null {
		return "", false
	}
	return r.String(), true
}

// Usage returns the raw usage object. ok is false when the field is missing or null.
func (e Event) Usage() (usage string, ok bool) {
	r := gjson.GetBytes(e.Raw, "usage")
	if !r.Exists() || r.Type == gjson.Null {
		return "", false
	}
	return r.Raw, true
}

// Decoder is the per-line state machine behind Decode.
type Decoder struct {
	state  State
	logger *zap.SugaredLogger
}

// NewDecoder creates a decoder in the streaming state. Malformed events are
// reported to logger.
func NewDecoder(logger *zap.SugaredLogger) *Decoder {
	return &Decoder{state: StateStreaming, logger: logger}
}

// State returns the current state.
func (d *Decoder) State() State {
	return d.state
}

// Step consumes one line and returns the event it carries, if any.
func (d *Decoder) Step(line []byte) (Event, bool) {
	if d.state == StateTerminated {
		return Event{}, false
	}

	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Event{}, false
	}

	payload, found := bytes.CutPrefix(line, []byte(DataPrefix))
	if !found {
		// event:, id:, retry: and ":" comments carry nothing we use.
		return Event{}, false
	}
	payload = bytes.TrimPrefix(payload, []byte(" "))

	if string(payload) == DonePayload {
		d.state = StateTerminated
		return Event{}, false
	}

	if !gjson.ValidBytes(payload) || !gjson.ParseBytes(payload).IsObject() {
		d.logger.Warnw("Skipping malformed stream event", "payload", string(payload))
		return Event{}, false
	}

	raw := make([]byte, len(payload))
	copy(raw, payload)
	return Event{Raw: raw}, true
}

// Decode wraps a line source into a sequence of events. Reading stops at the
// termination sentinel, at the end of the source, at the first source error
// (yielded once with a zero Event) or as soon as the consumer stops.
func Decode(lines iter.Seq2[[]byte, error], logger *zap.SugaredLogger) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		d := NewDecoder(logger)
		for line, err := range lines {
			if err != nil {
				yield(Event{}, err)
				return
			}
			ev, ok := d.Step(line)
			if d.State() == StateTerminated {
				return
			}
			if ok && !yield(ev, nil) {
				return
			}
		}
	}
}
