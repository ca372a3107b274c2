package bridge_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/pagekeep"
	"github.com/fwojciec/pagekeep/bridge"
	"github.com/fwojciec/pagekeep/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, body string) []byte {
	t.Helper()
	buf := make([]byte, 4+len(body))
	binary.NativeEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[4:], body)
	return buf
}

func readResponses(t *testing.T, r io.Reader) map[string]pagekeep.Response {
	t.Helper()
	out := map[string]pagekeep.Response{}
	for {
		body, err := bridge.ReadMessage(r)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		var resp pagekeep.Response
		require.NoError(t, json.Unmarshal(body, &resp))
		out[resp.ID] = resp
	}
}

func TestServe(t *testing.T) {
	t.Parallel()

	t.Run("answers every framed request", func(t *testing.T) {
		t.Parallel()

		d := newDispatcher(&mock.SyncClient{
			ListFn: func(context.Context) ([]*pagekeep.StoredRecord, error) {
				return []*pagekeep.StoredRecord{stored("1", "https://example.com/1", "One")}, nil
			},
		})

		var in bytes.Buffer
		in.Write(frame(t, `{"id":"a","type":"LIST_RECORDS"}`))
		in.Write(frame(t, `{"id":"b","type":"NOPE"}`))
		in.Write(frame(t, `{"id":"c","type":"SEARCH_RECORDS","payload":{"query":""}}`))

		var out bytes.Buffer
		require.NoError(t, bridge.Serve(context.Background(), d, &in, &out))

		responses := readResponses(t, &out)
		require.Len(t, responses, 3)
		assert.True(t, responses["a"].Success)
		assert.False(t, responses["b"].Success)
		assert.True(t, responses["c"].Success)
	})

	t.Run("answers malformed JSON without stopping", func(t *testing.T) {
		t.Parallel()

		d := newDispatcher(&mock.SyncClient{})

		var in bytes.Buffer
		in.Write(frame(t, `{not json`))
		in.Write(frame(t, `{"id":"ok","type":"SEARCH_RECORDS"}`))

		var out bytes.Buffer
		require.NoError(t, bridge.Serve(context.Background(), d, &in, &out))

		responses := readResponses(t, &out)
		require.Len(t, responses, 2)
		assert.False(t, responses[""].Success)
		assert.Contains(t, responses[""].Error, "invalid message")
		assert.True(t, responses["ok"].Success)
	})

	t.Run("fails on truncated frame", func(t *testing.T) {
		t.Parallel()

		d := newDispatcher(&mock.SyncClient{})
		full := frame(t, `{"type":"LIST_RECORDS"}`)

		err := bridge.Serve(context.Background(), d, bytes.NewReader(full[:len(full)-3]), io.Discard)
		require.Error(t, err)
	})
}

func TestWriteMessage(t *testing.T) {
	t.Parallel()

	t.Run("prefixes body with native-endian length", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, bridge.WriteMessage(&buf, pagekeep.Response{ID: "x", Success: true}))

		n := binary.NativeEndian.Uint32(buf.Bytes()[:4])
		assert.Equal(t, int(n), buf.Len()-4)
		assert.JSONEq(t, `{"id":"x","success":true}`, buf.String()[4:])
	})

	t.Run("replaces oversized responses with an error", func(t *testing.T) {
		t.Parallel()

		big, err := json.Marshal(strings.Repeat("a", bridge.MaxOutgoingBytes))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, bridge.WriteMessage(&buf, pagekeep.Response{ID: "big", Success: true, Data: big}))

		body, err := bridge.ReadMessage(&buf)
		require.NoError(t, err)
		var resp pagekeep.Response
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "big", resp.ID)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "exceeds")
	})
}

func TestReadMessage_RejectsOversizedLength(t *testing.T) {
	t.Parallel()

	var hdr [4]byte
	binary.NativeEndian.PutUint32(hdr[:], bridge.MaxIncomingBytes+1)

	_, err := bridge.ReadMessage(bytes.NewReader(hdr[:]))
	assert.Equal(t, pagekeep.EINVALID, pagekeep.ErrorCode(err))
}
