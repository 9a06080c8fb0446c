package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

// DefaultPrefix is where the collection is mounted.
const DefaultPrefix = "/api/creatures"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// RecordStore is the storage the handler serves.
type RecordStore interface {
	List(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, id int) (*domain.Record, error)
	Search(ctx context.Context, name string) ([]domain.Record, error)
	Create(ctx context.Context, rec domain.Record) (domain.Record, error)
	Update(ctx context.Context, rec domain.Record) error
	Delete(ctx context.Context, id int) error
}

// Options configures a Handler.
type Options struct {
	// Prefix is the collection path (default: /api/creatures).
	Prefix string

	// Delay is added before every collection response, to make debouncing
	// and supersession visible when exercising the client.
	Delay time.Duration

	// Token, when set, is required as a bearer token.
	Token string
}

// Handler serves the collection REST endpoints.
type Handler struct {
	store  RecordStore
	prefix string
	delay  time.Duration
	token  string
	mux    *http.ServeMux
}

// NewHandler creates a Handler over store.
func NewHandler(store RecordStore, opts Options) *Handler {
	prefix := strings.TrimRight(opts.Prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}

	h := &Handler{
		store:  store,
		prefix: prefix,
		delay:  opts.Delay,
		token:  opts.Token,
		mux:    http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /health", h.Health)
	h.mux.HandleFunc("GET "+prefix, h.guard(h.List))
	h.mux.HandleFunc("POST "+prefix, h.guard(h.Create))
	h.mux.HandleFunc("PUT "+prefix, h.guard(h.Update))
	h.mux.HandleFunc("GET "+prefix+"/{id}", h.guard(h.Get))
	h.mux.HandleFunc("PUT "+prefix+"/{id}", h.guard(h.Update))
	h.mux.HandleFunc("DELETE "+prefix+"/{id}", h.guard(h.Delete))

	return h
}

// Prefix returns the collection path.
func (h *Handler) Prefix() string {
	return h.prefix
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		w.Header().Set("X-Request-ID", id)
	}
	logger.Debug("%s %s", r.Method, r.URL.RequestURI())
	h.mux.ServeHTTP(w, r)
}

// Health reports liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// List returns every record, or those whose name contains ?name=.
// GET {prefix}
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		records []domain.Record
		err     error
	)
	if name := r.URL.Query().Get("name"); name != "" {
		records, err = h.store.Search(r.Context(), name)
	} else {
		records, err = h.store.List(r.Context())
	}
	if err != nil {
		h.fail(w, "list records", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Get returns one record.
// GET {prefix}/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get record", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Create stores a new record.
// POST {prefix}
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	if rec.Created.IsZero() {
		rec.Created = time.Now().UTC().Truncate(time.Second)
	}
	created, err := h.store.Create(r.Context(), rec)
	if err != nil {
		h.fail(w, "create record", err)
		return
	}
	w.Header().Set("Location", h.prefix+"/"+strconv.Itoa(created.ID))
	writeJSON(w, http.StatusCreated, created)
}

// Update replaces a stored record.
// PUT {prefix} or PUT {prefix}/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	if r.PathValue("id") != "" {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if rec.ID != 0 && rec.ID != id {
			writeError(w, http.StatusBadRequest, "body id does not match path")
			return
		}
		rec.ID = id
	}
	if rec.IsNew() {
		writeError(w, http.StatusBadRequest, domain.ErrMissingID.Error())
		return
	}
	if err := h.store.Update(r.Context(), rec); err != nil {
		h.fail(w, "update record", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete removes a record.
// DELETE {prefix}/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// guard applies authentication and the configured delay.
func (h *Handler) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && extractBearer(r) != h.token {
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		if h.delay > 0 {
			timer := time.NewTimer(h.delay)
			select {
			case <-r.Context().Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		next(w, r)
	}
}

// fail maps store errors to statuses.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("%s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (domain.Record, bool) {
	var rec domain.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return rec, false
	}
	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return rec, false
	}
	return rec, true
}

func extractBearer(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
