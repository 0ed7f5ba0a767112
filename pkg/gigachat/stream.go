package gigachat

import (
	"context"
	"encoding/json"
	"io"

	"gigachat-go/gigachat/pkg/sse"
	"gigachat-go/gigachat/pkg/telemetry/metrics"
)

// ChunkStream is a lazy, forward-only sequence of completion chunks decoded
// from a streaming response body. It is single-consumer and not restartable.
//
// Next is the only blocking operation: each call suspends until the next
// line arrives over the network or the stream terminates. Close is safe at
// any point, including after partial consumption, and releases the
// underlying response body.
//
//	stream, err := client.ChatStream(ctx, chat)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//	for stream.Next() {
//	    print(stream.Current())
//	}
//	if err := stream.Err(); err != nil {
//	    return err
//	}
type ChunkStream struct {
	body    io.ReadCloser
	dec     *sse.Decoder
	metrics *metrics.ClientMetrics
	current *ChatCompletionChunk
	err     error
	closed  bool
}

func newChunkStream(body io.ReadCloser, m *metrics.ClientMetrics) *ChunkStream {
	return &ChunkStream{
		body:    body,
		dec:     sse.NewDecoder(body),
		metrics: m,
	}
}

// Next advances to the next chunk. It returns false when the stream
// terminated; Err reports whether termination was clean (sentinel or
// transport close) or an error.
func (s *ChunkStream) Next() bool {
	if s.closed || s.err != nil {
		return false
	}

	if !s.dec.Next() {
		s.err = s.dec.Err()
		return false
	}

	var chunk ChatCompletionChunk
	if err := json.Unmarshal(s.dec.Data(), &chunk); err != nil {
		s.err = &ChunkDecodeError{Raw: string(s.dec.Data()), Cause: err}
		return false
	}

	s.current = &chunk
	s.metrics.RecordStreamChunk()
	return true
}

// Current returns the chunk Next advanced to. Valid only after Next
// returned true.
func (s *ChunkStream) Current() *ChatCompletionChunk {
	return s.current
}

// Err returns the error that terminated the stream, or nil after clean
// termination.
func (s *ChunkStream) Err() error {
	return s.err
}

// Close releases the underlying response body. Idempotent; stopping early
// is a supported termination path, not an error.
func (s *ChunkStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// StreamResult is one delivery on the channel facade: a chunk or the
// terminal error, never both.
type StreamResult struct {
	Chunk *ChatCompletionChunk
	Err   error
}

// Chunks adapts the stream for select-based consumers. It drains the stream
// in a goroutine and closes the channel on termination; a terminal error is
// delivered as the last result. The stream is closed when the channel
// closes or the context is cancelled, so the facade preserves the pull
// stream's resource and retry guarantees.
//
// Chunks takes over the stream: after calling it, Next and Close must not
// be used directly.
func (s *ChunkStream) Chunks(ctx context.Context) <-chan StreamResult {
	out := make(chan StreamResult)
	go func() {
		defer close(out)
		defer s.Close()
		for s.Next() {
			select {
			case out <- StreamResult{Chunk: s.Current()}:
			case <-ctx.Done():
				return
			}
		}
		if err := s.Err(); err != nil {
			select {
			case out <- StreamResult{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out
}
