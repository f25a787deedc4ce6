package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Event is one server-sent event.
type Event struct {
	Name string
	ID   string
	Data string
}

// Chunk is one incremental piece of generated text.
type Chunk struct {
	Text string `json:"chunk"`
}

// payload is the JSON carried in each data field.
type payload struct {
	Chunk   *string `json:"chunk"`
	Done    bool    `json:"done"`
	SceneID string  `json:"scene_id"`
	Error   string  `json:"error"`
}

// frameKind classifies a decoded event.
type frameKind int

const (
	frameSkip frameKind = iota
	frameChunk
	frameDone
	frameError
)

// decoded is one event as the channel sees it.
type decoded struct {
	kind    frameKind
	chunk   Chunk
	sceneID string
	err     string
}

// maxEventSize caps the bytes buffered for a single event.
const maxEventSize = 8 << 20

// ErrEventTooLarge is returned when one event exceeds maxEventSize.
var ErrEventTooLarge = errors.New("event exceeds size limit")

// decoder splits an event stream into events.
type decoder struct {
	r *bufio.Reader
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next dispatched event. Comments and retry hints are skipped.
// io.EOF means the server closed the stream cleanly.
func (d *decoder) Next() (Event, error) {
	var ev Event
	var data []string
	has := false
	size := 0

	for {
		line, err := d.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Event{}, err
		}
		eof := errors.Is(err, io.EOF)
		if eof && line == "" {
			break
		}
		size += len(line)
		if size > maxEventSize {
			return Event{}, ErrEventTooLarge
		}

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == "" {
			if has {
				ev.Data = strings.Join(data, "\n")
				return ev, nil
			}
			ev = Event{}
			size = 0
			if eof {
				break
			}
			continue
		}
		if !strings.HasPrefix(line, ":") {
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")
			switch field {
			case "data":
				data = append(data, value)
				has = true
			case "event":
				ev.Name = value
			case "id":
				ev.ID = value
			}
		}
		if eof {
			break
		}
	}
	// A final event without a trailing blank line is still dispatched.
	if has {
		ev.Data = strings.Join(data, "\n")
		return ev, nil
	}
	return Event{}, io.EOF
}

// parse classifies an event. Pings and payloads without text are skipped.
func parse(ev Event) decoded {
	if ev.Name == "ping" {
		return decoded{kind: frameSkip}
	}
	if ev.Name == "error" {
		return decoded{kind: frameError, err: ev.Data}
	}

	var p payload
	if err := json.Unmarshal([]byte(ev.Data), &p); err != nil {
		// Plain text frames are passed through as-is.
		return decoded{kind: frameChunk, chunk: Chunk{Text: ev.Data}}
	}
	switch {
	case p.Error != "":
		return decoded{kind: frameError, err: p.Error}
	case p.Done:
		return decoded{kind: frameDone, sceneID: p.SceneID}
	case p.Chunk == nil:
		return decoded{kind: frameSkip}
	}
	return decoded{kind: frameChunk, chunk: Chunk{Text: *p.Chunk}}
}
