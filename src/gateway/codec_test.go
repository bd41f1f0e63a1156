package gateway

import (
	"bytes"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

func TestEncodeOmitsAbsentData(t *testing.T) {
	data, err := Encode(OpcodeHeartbeat, nil)
	require.NoError(t, err)
	require.Equal(t, `{"op":1}`, string(data))

	codec := NewCodec()
	defer codec.Close()
	event, err := codec.Decode(websocket.TextMessage, data)
	require.NoError(t, err)
	require.Equal(t, OpcodeHeartbeat, event.Op)
	require.Nil(t, event.D, "absent payload must decode back to absent, not null")
}

func TestEncodeHeartbeatWithSequence(t *testing.T) {
	data, err := Encode(OpcodeHeartbeat, int64(251))
	require.NoError(t, err)
	require.JSONEq(t, `{"op":1,"d":251}`, string(data))
}

func TestDecodeTextDispatch(t *testing.T) {
	codec := NewCodec()
	defer codec.Close()
	event, err := codec.Decode(websocket.TextMessage,
		[]byte(`{"op":0,"s":7,"t":"MESSAGE_CREATE","d":{"content":"hi"}}`))
	require.NoError(t, err)
	require.Equal(t, OpcodeDispatch, event.Op)
	require.NotNil(t, event.S)
	require.Equal(t, int64(7), *event.S)
	require.Equal(t, "MESSAGE_CREATE", event.T)
	require.JSONEq(t, `{"content":"hi"}`, string(event.D))
}

func TestDecodeMalformedTextFrame(t *testing.T) {
	codec := NewCodec()
	defer codec.Close()
	_, err := codec.Decode(websocket.TextMessage, []byte(`{"op":`))
	require.Error(t, err)

	// A malformed text frame must not poison the codec.
	event, err := codec.Decode(websocket.TextMessage, []byte(`{"op":11}`))
	require.NoError(t, err)
	require.Equal(t, OpcodeHeartbeatAck, event.Op)
}

// The server compresses all frames of a connection as one continuous
// zlib stream, sync-flushing at every frame boundary. The second frame
// is only decodable with the decompressor state left by the first.
func TestDecodeCompressedStream(t *testing.T) {
	var stream bytes.Buffer
	zw := zlib.NewWriter(&stream)
	frame := func(payload string) []byte {
		stream.Reset()
		_, err := zw.Write([]byte(payload))
		require.NoError(t, err)
		require.NoError(t, zw.Flush())
		out := make([]byte, stream.Len())
		copy(out, stream.Bytes())
		return out
	}

	codec := NewCodec()
	defer codec.Close()

	first, err := codec.Decode(websocket.BinaryMessage,
		frame(`{"op":10,"d":{"heartbeat_interval":41250}}`))
	require.NoError(t, err)
	require.Equal(t, OpcodeHello, first.Op)

	second, err := codec.Decode(websocket.BinaryMessage,
		frame(`{"op":0,"s":2,"t":"MESSAGE_CREATE","d":{"content":"again"}}`))
	require.NoError(t, err)
	require.Equal(t, OpcodeDispatch, second.Op)
	require.Equal(t, int64(2), *second.S)
}

func TestDecodeBinaryGarbageKillsDecompressor(t *testing.T) {
	codec := NewCodec()
	defer codec.Close()
	_, err := codec.Decode(websocket.BinaryMessage, []byte("this is not zlib"))
	require.Error(t, err)

	// The broken stream cannot be recovered; later binary frames fail
	// fast instead of blocking.
	_, err = codec.Decode(websocket.BinaryMessage, []byte{0x78, 0x9c})
	require.Error(t, err)

	// Text frames are unaffected.
	event, err := codec.Decode(websocket.TextMessage, []byte(`{"op":11}`))
	require.NoError(t, err)
	require.Equal(t, OpcodeHeartbeatAck, event.Op)
}

func TestCodecCloseIsIdempotent(t *testing.T) {
	codec := NewCodec()
	require.NoError(t, codec.Close())
	require.NoError(t, codec.Close())
}
