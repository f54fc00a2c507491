package requestlog

import (
	"context"
	"fmt"
	"strings"
)

type Storage interface {
	Insert(ctx context.Context, path, query string, status *int, dateAsOf *string) error
}

// DBRequestLogger writes provider calls to Storage. It implements
// exchangerate.RequestLogger.
type DBRequestLogger struct {
	storage Storage
}

func New(storage Storage) *DBRequestLogger {
	return &DBRequestLogger{storage: storage}
}

func (l *DBRequestLogger) LogRequest(ctx context.Context, endpoint, query string, status *int, dateAsOf *string) error {
	p := strings.TrimSpace(endpoint)
	p = strings.Trim(p, "/")
	if p == "" {
		p = "unknown"
	}

	if err := l.storage.Insert(ctx, p, query, status, dateAsOf); err != nil {
		return fmt.Errorf("log request %s: %w", p, err)
	}
	return nil
}
