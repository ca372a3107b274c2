package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fwojciec/pagekeep"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxRecordBytes limits the size of a posted record.
const MaxRecordBytes = 4 << 20

// dataResponse is the success body. Data is always present, so an empty
// list encodes as [] rather than disappearing.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// errorResponse is the failure body.
type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the record service JSON API:
//
//	POST /api/records                  store a record, replacing by source URL
//	GET  /api/records                  list records, newest first
//	GET  /api/records/{encoded-url}    fetch one record
type Handler struct {
	router  chi.Router
	records pagekeep.RecordService
	logger  *slog.Logger
}

// NewHandler returns a Handler backed by records.
func NewHandler(records pagekeep.RecordService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{records: records, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api/records", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/*", h.handleFind)
	})
	h.router = r

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var rec pagekeep.ExtractedRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRecordBytes)).Decode(&rec); err != nil {
		h.writeError(w, r, pagekeep.Errorf(pagekeep.EINVALID, "invalid record: %v", err))
		return
	}

	stored, created, err := h.records.CreateRecord(r.Context(), &rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, dataResponse[*pagekeep.StoredRecord]{Data: stored})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var filter pagekeep.RecordFilter

	q := r.URL.Query()
	if v := q.Get("kind"); v != "" {
		kind := pagekeep.RecordKind(v)
		filter.Kind = &kind
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, r, pagekeep.Errorf(pagekeep.EINVALID, "invalid %s %q", name, v))
			return
		}
		*dst = n
	}

	records, err := h.records.FindRecords(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*pagekeep.StoredRecord{}
	}
	h.writeJSON(w, http.StatusOK, dataResponse[[]*pagekeep.StoredRecord]{Data: records})
}

func (h *Handler) handleFind(w http.ResponseWriter, r *http.Request) {
	sourceURL, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil || sourceURL == "" {
		h.writeError(w, r, pagekeep.Errorf(pagekeep.EINVALID, "invalid source URL"))
		return
	}

	rec, err := h.records.FindRecordByURL(r.Context(), sourceURL)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dataResponse[*pagekeep.StoredRecord]{Data: rec})
}

// writeError writes the error body. Internal errors are logged and
// their details withheld from the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := pagekeep.ErrorCode(err)
	status := statusFor(code)
	if code == pagekeep.EINTERNAL {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	h.writeJSON(w, status, errorResponse{Error: pagekeep.ErrorMessage(err)})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("write response", "err", err)
	}
}

// statusFor maps application error codes to HTTP status codes.
func statusFor(code string) int {
	switch code {
	case pagekeep.EINVALID:
		return http.StatusBadRequest
	case pagekeep.ENOTFOUND:
		return http.StatusNotFound
	case pagekeep.ENOTSUPPORTED:
		return http.StatusUnprocessableEntity
	case pagekeep.EBUSY:
		return http.StatusConflict
	case pagekeep.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
