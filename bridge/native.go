package bridge

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/pagekeep"
)

// Native messaging limits. Chrome rejects host messages above 1 MB.
const (
	MaxOutgoingBytes = 1 << 20
	MaxIncomingBytes = 64 << 20
)

// Serve runs the Chrome native-messaging protocol: each message is a
// native-endian uint32 length followed by that many bytes of JSON. Requests
// are dispatched concurrently and responses may be written out of order;
// callers correlate them by ID. Serve returns nil when r reaches EOF, after
// all in-flight requests have answered.
func Serve(ctx context.Context, d *Dispatcher, r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	defer wg.Wait()

	write := func(resp pagekeep.Response) {
		mu.Lock()
		defer mu.Unlock()
		if err := WriteMessage(w, resp); err != nil {
			d.logger.Error("write response", "id", resp.ID, "err", err)
		}
	}

	for {
		body, err := ReadMessage(br)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var req pagekeep.Request
		if err := json.Unmarshal(body, &req); err != nil {
			write(failure("", fmt.Sprintf("invalid message: %v", err)))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			write(d.Dispatch(ctx, req))
		}()
	}
}

// ReadMessage reads one length-prefixed message. It returns io.EOF only
// when r ends cleanly between messages.
func ReadMessage(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.NativeEndian, &n); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("reading message length: %w", err)
		}
		return nil, err
	}
	if n > MaxIncomingBytes {
		return nil, pagekeep.Errorf(pagekeep.EINVALID, "message of %d bytes exceeds limit", n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading message body: %w", err)
	}
	return body, nil
}

// WriteMessage writes resp as one length-prefixed message. A response over
// MaxOutgoingBytes is replaced by an error response.
func WriteMessage(w io.Writer, resp pagekeep.Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if len(body) > MaxOutgoingBytes {
		body, err = json.Marshal(failure(resp.ID, fmt.Sprintf("response of %d bytes exceeds the native messaging limit", len(body))))
		if err != nil {
			return err
		}
	}

	buf := make([]byte, 4+len(body))
	binary.NativeEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[4:], body)
	_, err = w.Write(buf)
	return err
}
