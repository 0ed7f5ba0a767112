package sse

import (
	"bufio"
	"io"
	"strings"
)

const (
	// dataField is the only event-stream field that carries payload bytes.
	// Everything else (event names, comments, ids) is discarded.
	dataField = "data"

	// DoneSentinel is the payload the server sends to mark the clean end of
	// a stream. It is not delivered to the caller.
	DoneSentinel = "[DONE]"

	// maxLineSize bounds a single event-stream line. Completion chunks are
	// small, but a single data line carries a whole JSON document, so the
	// default bufio.Scanner limit of 64KB is too tight.
	maxLineSize = 1 << 20
)

// Decoder reads an event-stream body line by line and yields the payload of
// each data field. It terminates cleanly when the body ends or when the
// DoneSentinel payload arrives.
type Decoder struct {
	scanner *bufio.Scanner
	data    []byte
	err     error
	done    bool
}

// NewDecoder creates a decoder for a single event-stream body.
// A fresh decoder is required per stream.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Decoder{scanner: scanner}
}

// Next advances to the next data payload. It returns false when the stream
// terminated, either cleanly (sentinel or EOF) or with a read error; Err
// distinguishes the two.
func (d *Decoder) Next() bool {
	if d.done || d.err != nil {
		return false
	}

	for d.scanner.Scan() {
		value, ok := parseLine(d.scanner.Text())
		if !ok {
			continue
		}
		if value == DoneSentinel {
			d.done = true
			return false
		}
		d.data = []byte(value)
		return true
	}

	d.done = true
	d.err = d.scanner.Err()
	return false
}

// Data returns the payload of the current data line. Valid only after Next
// returned true, and only until the following call to Next.
func (d *Decoder) Data() []byte {
	return d.data
}

// Err returns the read error that terminated the stream, or nil if the
// stream ended cleanly.
func (d *Decoder) Err() error {
	return d.err
}

// parseLine splits an event-stream line at the first ": " separator and
// returns the value if the line is a data field. Lines without a separator,
// blank keep-alives and non-data fields report ok=false.
func parseLine(line string) (value string, ok bool) {
	field, value, found := strings.Cut(line, ": ")
	if !found || field != dataField {
		return "", false
	}
	return value, true
}
