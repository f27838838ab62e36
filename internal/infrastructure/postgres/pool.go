package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

func NewPool(ctx context.Context, dsn string, maxConns, minConns int32, maxConnLife time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxConnLife
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Store serves both gateways from one pool.
type Store struct {
	pool   *pgxpool.Pool
	users  *UserGateway
	events *EventGateway
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:   pool,
		users:  NewUserGateway(pool),
		events: NewEventGateway(pool),
	}
}

func (s *Store) Users() repo.UserGateway   { return s.users }
func (s *Store) Events() repo.EventGateway { return s.events }
func (s *Store) Close()                    { s.pool.Close() }
