package runtime

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// StreamFormat names the wire framing of a streaming response.
type StreamFormat string

const (
	StreamSSE     StreamFormat = "sse"
	StreamNDJSON  StreamFormat = "ndjson"
	StreamChunked StreamFormat = "chunked"
)

// Event is one decoded unit from a streaming response: for SSE and NDJSON, Data holds
// the decoded JSON payload bytes; for chunked framing, Data holds the raw chunk.
type Event struct {
	Data []byte
	// Event is the SSE "event:" field, empty for NDJSON/chunked framing.
	Event string
}

// Stream is a lazy sequence of decoded events over an HTTP response body. Calling
// Close before the sequence is exhausted releases the underlying transport promptly.
type Stream struct {
	body   io.ReadCloser
	events chan Event
	errc   chan error
	cancel context.CancelFunc
}

// Close releases the underlying response body. Safe to call more than once.
func (s *Stream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.body.Close()
}

// Next blocks for the next event, returning ok=false once the stream is exhausted or
// ctx is cancelled. err is non-nil on a genuine read/decode failure, and is ctx.Err()
// when ctx is cancelled.
func (s *Stream) Next(ctx context.Context) (Event, bool, error) {
	select {
	case ev, ok := <-s.events:
		if !ok {
			select {
			case err := <-s.errc:
				return Event{}, false, err
			default:
				return Event{}, false, nil
			}
		}
		return ev, true, nil
	case <-ctx.Done():
		return Event{}, false, ctx.Err()
	}
}

// newStream starts a goroutine parsing body per format and returns a Stream reading
// from it. The parse goroutine exits as soon as body is closed or ctx is cancelled,
// so Stream.Close always terminates it promptly.
func newStream(ctx context.Context, body io.ReadCloser, format StreamFormat) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{body: body, events: make(chan Event), errc: make(chan error, 1), cancel: cancel}
	go func() {
		defer close(s.events)
		var err error
		switch format {
		case StreamSSE:
			err = parseSSE(ctx, body, s.events)
		case StreamNDJSON:
			err = parseNDJSON(ctx, body, s.events)
		default:
			err = parseChunked(ctx, body, s.events)
		}
		if err != nil && err != io.EOF {
			s.errc <- err
		}
	}()
	return s
}

// parseSSE implements the "data:"-lines-separated-by-blank-lines SSE framing. A bare
// "[DONE]" payload (a convention several streaming APIs use) ends the stream early
// without error.
func parseSSE(ctx context.Context, body io.Reader, out chan<- Event) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var dataLines []string
	var eventName string
	flush := func() bool {
		if len(dataLines) == 0 {
			eventName = ""
			return true
		}
		data := strings.Join(dataLines, "\n")
		dataLines = nil
		name := eventName
		eventName = ""
		if data == "[DONE]" {
			return false
		}
		select {
		case out <- Event{Data: []byte(data), Event: name}:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if !flush() {
				return nil
			}
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimPrefix(strings.TrimPrefix(line, "event:"), " ")
		case strings.HasPrefix(line, ":"):
			// comment line, ignored per the SSE wire format
		}
	}
	flush()
	return scanner.Err()
}

// parseNDJSON yields one event per newline-terminated JSON value.
func parseNDJSON(ctx context.Context, body io.Reader, out chan<- Event) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var probe json.RawMessage
		if err := json.Unmarshal(line, &probe); err != nil {
			return err
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		select {
		case out <- Event{Data: cp}:
		case <-ctx.Done():
			return nil
		}
	}
	return scanner.Err()
}

// parseChunked yields each raw chunk as it is read off the wire, with no attempt at
// framing.
func parseChunked(ctx context.Context, body io.Reader, out chan<- Event) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			select {
			case out <- Event{Data: cp}:
			case <-ctx.Done():
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
