package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"

	"emberwood/server/logging"
)

// JSON emits newline-delimited structured events.
type JSON struct {
	mu      sync.Mutex
	writer  *bufio.Writer
	encoder *json.Encoder
	closer  io.Closer
}

// NewJSON constructs a JSON sink writing to the provided io.Writer. If the
// writer is also an io.Closer it is closed with the sink.
func NewJSON(w io.Writer) *JSON {
	if w == nil {
		w = io.Discard
	}
	buf := bufio.NewWriter(w)
	sink := &JSON{writer: buf, encoder: json.NewEncoder(buf)}
	if closer, ok := w.(io.Closer); ok {
		sink.closer = closer
	}
	return sink
}

func (s *JSON) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.encoder.Encode(event); err != nil {
		return err
	}
	return s.writer.Flush()
}

func (s *JSON) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
