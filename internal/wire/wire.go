// Package wire implements the framed JSON codec used on the bot channel.
//
// Every message is a 4-byte big-endian unsigned length followed by that many
// bytes of UTF-8 JSON. The codec knows nothing about message schemas; callers
// hand it values to marshal and targets to unmarshal into.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxFrame is the largest frame accepted from a peer unless the caller
// overrides it.
const DefaultMaxFrame = 1 << 20 // 1 MiB

var (
	// ErrFrameTooLarge is returned when a peer announces a frame larger than
	// the configured cap.
	ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

	// ErrClosedEarly is returned when the peer closes the connection before a
	// complete frame has been received.
	ErrClosedEarly = errors.New("wire: connection closed mid-frame")
)

// Write serializes v as compact JSON and writes it to w with a length prefix.
func Write(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("wire: marshal: %w", err)
	}
	return WriteRaw(w, payload)
}

// WriteRaw frames an already-serialized payload and writes it to w. The
// header and body go out in a single write so a slow peer cannot observe a
// torn frame boundary.
func WriteRaw(w io.Writer, payload []byte) error {
	buf := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(payload)))
	copy(buf[4:], payload)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("wire: write frame: %w", err)
	}
	return nil
}

// Read reads one frame from r and unmarshals it into v, enforcing the
// default frame cap.
func Read(r io.Reader, v any) error {
	return ReadLimit(r, v, DefaultMaxFrame)
}

// ReadLimit reads one frame from r with an explicit size cap.
func ReadLimit(r io.Reader, v any, maxFrame uint32) error {
	payload, err := ReadRaw(r, maxFrame)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("wire: unmarshal: %w", err)
	}
	return nil
}

// ReadRaw reads one frame from r and returns the raw payload bytes. It blocks
// until the 4-byte header and then the full body have arrived.
func ReadRaw(r io.Reader, maxFrame uint32) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, readErr(err)
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrame {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, maxFrame)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, readErr(err)
	}
	return payload, nil
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrClosedEarly, err)
	}
	return fmt.Errorf("wire: read frame: %w", err)
}
