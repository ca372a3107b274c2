// Package bridge exposes a session through request/response messages, the
// shape a browser extension popup uses to talk to its background worker.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/fwojciec/pagekeep"
	"github.com/fwojciec/pagekeep/session"
)

// HandlerFunc answers the payload of one message type. The returned value
// is marshaled into Response.Data.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Dispatcher routes requests to handlers by message type.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

// NewDispatcher returns a Dispatcher serving the standard message types
// against s.
func NewDispatcher(s *session.Session, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{handlers: make(map[string]HandlerFunc), logger: logger}

	d.Handle(pagekeep.MessageScrapePage, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var opts session.ScrapeOptions
		if err := decode(payload, &opts); err != nil {
			return nil, err
		}
		return s.Scrape(ctx, opts)
	})

	d.Handle(pagekeep.MessageCheckRecord, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			URL string `json:"url"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if req.URL == "" {
			return nil, pagekeep.Errorf(pagekeep.EINVALID, "url required")
		}
		rec, err := s.Check(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		return struct {
			Exists bool                   `json:"exists"`
			Record *pagekeep.StoredRecord `json:"record,omitempty"`
		}{rec != nil, rec}, nil
	})

	d.Handle(pagekeep.MessageSaveRecord, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var rec pagekeep.ExtractedRecord
		if len(payload) == 0 {
			return nil, pagekeep.Errorf(pagekeep.EINVALID, "record required")
		}
		if err := decode(payload, &rec); err != nil {
			return nil, err
		}
		return s.Save(ctx, &rec)
	})

	d.Handle(pagekeep.MessageListRecords, func(ctx context.Context, _ json.RawMessage) (any, error) {
		if err := s.Activate(ctx); err != nil {
			return nil, err
		}
		return nonNil(s.List()), nil
	})

	d.Handle(pagekeep.MessageSearchRecords, func(_ context.Context, payload json.RawMessage) (any, error) {
		var req struct {
			Query string `json:"query"`
		}
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nonNil(s.Search(req.Query)), nil
	})

	return d
}

// Handle registers fn for messages of type typ, replacing any previous handler.
func (d *Dispatcher) Handle(typ string, fn HandlerFunc) {
	d.handlers[typ] = fn
}

// Dispatch answers req with exactly one Response. Unknown types, handler
// errors and handler panics produce an unsuccessful response.
func (d *Dispatcher) Dispatch(ctx context.Context, req pagekeep.Request) (resp pagekeep.Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panic", "type", req.Type, "panic", r, "stack", string(debug.Stack()))
			resp = failure(req.ID, fmt.Sprintf("internal error handling %s", req.Type))
		}
	}()

	fn, ok := d.handlers[req.Type]
	if !ok {
		return failure(req.ID, fmt.Sprintf("unknown message type %q", req.Type))
	}

	data, err := fn(ctx, req.Payload)
	if err != nil {
		d.logger.Debug("handler failed", "type", req.Type, "err", err)
		return failure(req.ID, errorText(err))
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return failure(req.ID, fmt.Sprintf("encoding %s result: %v", req.Type, err))
	}
	return pagekeep.Response{ID: req.ID, Success: true, Data: raw}
}

func failure(id, msg string) pagekeep.Response {
	return pagekeep.Response{ID: id, Success: false, Error: msg}
}

// errorText keeps application messages as they are and spells out
// unexpected errors, since the reader is the local user.
func errorText(err error) string {
	if pagekeep.ErrorCode(err) == pagekeep.EINTERNAL {
		return err.Error()
	}
	return pagekeep.ErrorMessage(err)
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return pagekeep.Errorf(pagekeep.EINVALID, "invalid payload: %v", err)
	}
	return nil
}

func nonNil(records []*pagekeep.StoredRecord) []*pagekeep.StoredRecord {
	if records == nil {
		return []*pagekeep.StoredRecord{}
	}
	return records
}
