package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Migrations struct {
	pool *pgxpool.Pool
}

func NewMigrations(pool *pgxpool.Pool) *Migrations {
	return &Migrations{pool: pool}
}

func (m *Migrations) Setup(ctx context.Context) error {
	if err := m.setupRequestLogTable(ctx); err != nil {
		return fmt.Errorf("setup request_log: %w", err)
	}
	return nil
}

func (m *Migrations) setupRequestLogTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
create table if not exists request_log (
  id           bigserial primary key,
  path         text not null,
  query        text,
  status       integer,
  date_as_of   date,
  requested_at timestamptz not null default now()
);

-- failed provider calls, newest first
create index if not exists idx_request_log_failed
  on request_log (requested_at desc)
  where status is null or status >= 400;

create index if not exists idx_request_log_date_as_of
  on request_log (date_as_of)
  where date_as_of is not null;
`)
	if err != nil {
		return fmt.Errorf("ensure table request_log: %w", err)
	}
	return nil
}
