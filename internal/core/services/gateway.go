package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bestiary-cli/internal/core/ports/driving"
	"github.com/custodia-labs/bestiary-cli/internal/logger"
)

// Ensure RecordGateway implements the interface.
var _ driving.RecordGateway = (*RecordGateway)(nil)

// RecordGateway talks to the remote collection through a driven.Transport.
// It holds no mutable state and is safe for concurrent use.
type RecordGateway struct {
	transport     driven.Transport
	minTermLength int
}

// NewRecordGateway creates a gateway over the given transport.
func NewRecordGateway(transport driven.Transport) *RecordGateway {
	return &RecordGateway{
		transport:     transport,
		minTermLength: domain.DefaultMinTermLength,
	}
}

// SetMinTermLength sets the shortest search term sent to the remote collection.
func (g *RecordGateway) SetMinTermLength(n int) {
	if n < 1 {
		n = 1
	}
	g.minTermLength = n
}

// ListAll returns every record in the collection.
func (g *RecordGateway) ListAll(ctx context.Context) []domain.Record {
	return degrade("list records", []domain.Record{}, func() ([]domain.Record, error) {
		return g.fetchList(ctx, driven.Request{Method: http.MethodGet})
	})
}

// GetByID fetches a single record. A zero Record signals failure.
func (g *RecordGateway) GetByID(ctx context.Context, id int) domain.Record {
	op := fmt.Sprintf("get record %d", id)
	return degrade(op, domain.Record{}, func() (domain.Record, error) {
		if id <= 0 {
			return domain.Record{}, fmt.Errorf("%w: id must be positive", domain.ErrInvalidInput)
		}
		return g.fetchRecord(ctx, driven.Request{Method: http.MethodGet, Path: recordPath(id)})
	})
}

// Search returns records whose name matches term.
// Terms shorter than the minimum length resolve to no records without a request.
func (g *RecordGateway) Search(ctx context.Context, term string) []domain.Record {
	if utf8.RuneCountInString(term) < g.minTermLength {
		logger.Debug("search %q below minimum length %d, skipping request", term, g.minTermLength)
		return []domain.Record{}
	}
	op := fmt.Sprintf("search %q", term)
	return degrade(op, []domain.Record{}, func() ([]domain.Record, error) {
		return g.fetchList(ctx, driven.Request{
			Method: http.MethodGet,
			Query:  url.Values{"name": []string{term}},
		})
	})
}

// Add stores a new record. It returns nil on failure.
func (g *RecordGateway) Add(ctx context.Context, rec domain.Record) *domain.Record {
	op := fmt.Sprintf("add record %q", rec.Name)
	return degrade(op, nil, func() (*domain.Record, error) {
		if !rec.IsNew() {
			return nil, fmt.Errorf("%w: new record already has id %d", domain.ErrInvalidInput, rec.ID)
		}
		created, err := g.fetchRecord(ctx, driven.Request{Method: http.MethodPost, Body: rec})
		if err != nil {
			return nil, err
		}
		return &created, nil
	})
}

// Update replaces a stored record. It returns false on failure.
func (g *RecordGateway) Update(ctx context.Context, rec domain.Record) bool {
	op := fmt.Sprintf("update record %d", rec.ID)
	return degrade(op, false, func() (bool, error) {
		if rec.IsNew() {
			return false, domain.ErrMissingID
		}
		if err := g.call(ctx, driven.Request{Method: http.MethodPut, Body: rec}, nil); err != nil {
			return false, err
		}
		return true, nil
	})
}

// DeleteByID removes a record. It returns false on failure.
func (g *RecordGateway) DeleteByID(ctx context.Context, id int) bool {
	op := fmt.Sprintf("delete record %d", id)
	return degrade(op, false, func() (bool, error) {
		if id <= 0 {
			return false, fmt.Errorf("%w: id must be positive", domain.ErrInvalidInput)
		}
		if err := g.call(ctx, driven.Request{Method: http.MethodDelete, Path: recordPath(id)}, nil); err != nil {
			return false, err
		}
		return true, nil
	})
}

// fetchList performs a request whose response is a JSON array of records.
func (g *RecordGateway) fetchList(ctx context.Context, req driven.Request) ([]domain.Record, error) {
	var records []domain.Record
	if err := g.call(ctx, req, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.Record{}
	}
	logger.Debug("%s %s: %d records", req.Method, describe(req), len(records))
	return records, nil
}

// fetchRecord performs a request whose response is a single stored record.
// A null or id-less payload is a failed operation, not an empty record.
func (g *RecordGateway) fetchRecord(ctx context.Context, req driven.Request) (domain.Record, error) {
	var rec domain.Record
	if err := g.call(ctx, req, &rec); err != nil {
		return domain.Record{}, err
	}
	if rec.ID <= 0 {
		return domain.Record{}, fmt.Errorf("%w: %s %s: response carries no record",
			domain.ErrRemoteOperationFailed, req.Method, describe(req))
	}
	return rec, nil
}

// call sends req and, when out is non-nil, decodes the JSON response into it.
func (g *RecordGateway) call(ctx context.Context, req driven.Request, out any) error {
	if g.transport == nil {
		return fmt.Errorf("%w: no transport configured", domain.ErrRemoteOperationFailed)
	}

	body, err := g.transport.Do(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrRemoteOperationFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrRemoteOperationFailed, err)
	}

	if out == nil {
		logger.Debug("%s %s: acknowledged", req.Method, describe(req))
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrRemoteOperationFailed, err)
	}
	return nil
}

// degrade runs call and replaces any failure with fallback.
// Every gateway operation goes through here, so none can leak an error.
func degrade[T any](op string, fallback T, call func() (T, error)) T {
	v, err := call()
	if err == nil {
		return v
	}
	if errors.Is(err, context.Canceled) {
		logger.Debug("%s cancelled", op)
	} else {
		logger.Warn("%s failed: %v", op, err)
	}
	return fallback
}

func recordPath(id int) string {
	return "/" + strconv.Itoa(id)
}

func describe(req driven.Request) string {
	path := req.Path
	if path == "" {
		path = "/"
	}
	if len(req.Query) > 0 {
		path += "?" + req.Query.Encode()
	}
	return path
}
