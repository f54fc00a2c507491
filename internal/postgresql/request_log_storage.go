package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestLogStorage struct {
	pgpool *pgxpool.Pool
}

func NewRequestLogStorage(pgpool *pgxpool.Pool) *RequestLogStorage {
	return &RequestLogStorage{pgpool: pgpool}
}

// Insert stores one provider call. An empty query is stored as NULL.
// dateAsOf must be YYYY-MM-DD when set.
func (s *RequestLogStorage) Insert(ctx context.Context, path, query string, status *int, dateAsOf *string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "unknown"
	}

	var q *string
	if query = strings.TrimSpace(query); query != "" {
		q = &query
	}

	var asOf *time.Time
	if dateAsOf != nil {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(*dateAsOf))
		if err != nil {
			return fmt.Errorf("date_as_of must be YYYY-MM-DD, got %q", *dateAsOf)
		}
		asOf = &t
	}

	_, err := s.pgpool.Exec(ctx, `
insert into request_log (path, query, status, date_as_of)
values ($1, $2, $3, $4::date);
`, path, q, status, asOf)
	if err != nil {
		return fmt.Errorf("insert request_log: %w", err)
	}
	return nil
}
