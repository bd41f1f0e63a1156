package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zlib"

	"github.com/shrikebot/shrike/src/structs"
)

var errDecompressorClosed = errors.New("decompressor is closed")

// Encode produces the outbound wire form of an envelope. A nil payload
// is omitted from the encoded form entirely rather than written as null.
func Encode(op Opcode, d interface{}) ([]byte, error) {
	e := structs.Event{Op: op}
	if d != nil {
		e.D = d
	}
	return json.Marshal(e)
}

type inflated struct {
	event *structs.RawEvent
	err   error
}

// Codec decodes inbound frames into envelopes. The server sends all
// frames of one connection through a single continuous zlib stream, so
// the codec owns one long-lived decompressor which is created with the
// connection and discarded with it. Never reuse a Codec across
// connections.
type Codec struct {
	pw   *io.PipeWriter
	out  chan inflated
	dead atomic.Bool
}

func NewCodec() *Codec {
	pr, pw := io.Pipe()
	c := &Codec{
		pw:  pw,
		out: make(chan inflated, 4),
	}
	go c.inflate(pr)
	return c
}

// inflate owns the zlib reader. It consumes compressed bytes from the
// pipe as Decode writes frames in, and emits one envelope per frame.
// Frames are sync-flushed by the server, so every frame ends exactly at
// an envelope boundary.
func (c *Codec) inflate(pr *io.PipeReader) {
	zr, err := zlib.NewReader(pr)
	if err != nil {
		pr.CloseWithError(err)
		c.out <- inflated{err: fmt.Errorf("failed to init decompressor: %w", err)}
		close(c.out)
		return
	}
	defer zr.Close()
	decoder := json.NewDecoder(zr)
	for {
		event := new(structs.RawEvent)
		if err := decoder.Decode(event); err != nil {
			pr.CloseWithError(err)
			c.out <- inflated{err: fmt.Errorf("malformed compressed frame: %w", err)}
			close(c.out)
			return
		}
		c.out <- inflated{event: event}
	}
}

// Decode parses one inbound frame. Text frames parse directly; binary
// frames pass through the streaming decompressor. A decode failure
// only poisons the caller's current frame, except for binary frames:
// a broken compression stream cannot be recovered, so every later
// binary frame fails fast until the connection is replaced.
func (c *Codec) Decode(messageType int, frame []byte) (*structs.RawEvent, error) {
	if messageType != websocket.BinaryMessage {
		event := new(structs.RawEvent)
		if err := json.Unmarshal(frame, event); err != nil {
			return nil, fmt.Errorf("malformed text frame: %w", err)
		}
		return event, nil
	}
	if c.dead.Load() {
		return nil, errDecompressorClosed
	}
	if _, err := c.pw.Write(frame); err != nil {
		c.dead.Store(true)
		return nil, fmt.Errorf("decompressor rejected frame: %w", err)
	}
	res, ok := <-c.out
	if !ok {
		c.dead.Store(true)
		return nil, errDecompressorClosed
	}
	if res.err != nil {
		c.dead.Store(true)
		return nil, res.err
	}
	return res.event, nil
}

// Close tears the decompressor down. Safe to call more than once and
// concurrently with Decode; a blocked Decode unblocks with an error.
func (c *Codec) Close() error {
	c.dead.Store(true)
	return c.pw.CloseWithError(errDecompressorClosed)
}
