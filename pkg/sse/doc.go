// Package sse decodes Server-Sent-Events response bodies into raw data
// payloads.
//
// The GigaChat streaming endpoint delivers completions as a text/event-stream
// body: each payload arrives on a line of the form "data: <json>", other
// fields (comments, event names, keep-alive blanks) are noise, and the server
// marks the end of the stream with the sentinel payload "[DONE]".
//
// A Decoder consumes one response body and yields one payload per data line:
//
//	dec := sse.NewDecoder(resp.Body)
//	for dec.Next() {
//	    handle(dec.Data())
//	}
//	if err := dec.Err(); err != nil {
//	    return err
//	}
//
// Decoders are single-use: they hold per-stream scanner state and must not
// be shared across response bodies or goroutines. Interpreting the payload
// bytes (JSON decoding into chunk types) is the caller's concern.
package sse
