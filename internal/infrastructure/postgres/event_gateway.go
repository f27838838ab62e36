package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

var eventSelectCols = []any{"id", "title", "description", "start_date", "end_date", "user_id", "created_at", "updated_at"}

type EventGateway struct {
	pool *pgxpool.Pool
}

func NewEventGateway(pool *pgxpool.Pool) *EventGateway {
	return &EventGateway{pool: pool}
}

func (g *EventGateway) Kind() entity.Kind { return entity.KindEvent }

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.User, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

func (g *EventGateway) FindByID(ctx context.Context, id string) (*entity.Event, error) {
	q, args, err := buildSelect(tableEvents, eventSelectCols, eventColumns, repo.Eq(repo.FieldID, id), nil)
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(g.pool.QueryRow(ctx, q, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, mapError(err)
}

func (g *EventGateway) Find(ctx context.Context, filter repo.Filter, opts *repo.FindOptions) ([]entity.Event, error) {
	q, args, err := buildSelect(tableEvents, eventSelectCols, eventColumns, filter, opts)
	if err != nil {
		return nil, err
	}
	rows, err := g.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []entity.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (g *EventGateway) Exists(ctx context.Context, filter repo.Filter) (bool, error) {
	q, args, err := buildExists(tableEvents, eventColumns, filter)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := g.pool.QueryRow(ctx, q, args...).Scan(&ok); err != nil {
		return false, mapError(err)
	}
	return ok, nil
}

func (g *EventGateway) Create(ctx context.Context, rec entity.Event) (*entity.Event, error) {
	if rec.ID == "" {
		rec.ID = entity.NewID()
	}
	now := time.Now().UTC()
	q, args, err := dialect.Insert(tableEvents).Prepared(true).Rows(goqu.Record{
		"id":          rec.ID,
		"title":       rec.Title,
		"description": rec.Description,
		"start_date":  rec.StartDate,
		"end_date":    rec.EndDate,
		"user_id":     nullable(rec.User),
		"created_at":  now,
		"updated_at":  now,
	}).Returning(eventSelectCols...).ToSQL()
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(g.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func eventPatchRecord(p entity.EventPatch) goqu.Record {
	rec := goqu.Record{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		rec["title"] = *p.Title
	}
	if p.Description != nil {
		rec["description"] = *p.Description
	}
	if p.StartDate != nil {
		rec["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		rec["end_date"] = *p.EndDate
	}
	if p.User != nil {
		rec["user_id"] = *p.User
	}
	return rec
}

func (g *EventGateway) PatchFields(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error) {
	q, args, err := dialect.Update(tableEvents).Prepared(true).
		Set(eventPatchRecord(patch)).
		Where(goqu.C("id").Eq(id)).
		Returning(eventSelectCols...).
		ToSQL()
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(g.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (g *EventGateway) Delete(ctx context.Context, id string) (int64, error) {
	q, args, err := buildDelete(tableEvents, id)
	if err != nil {
		return 0, err
	}
	tag, err := g.pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}
