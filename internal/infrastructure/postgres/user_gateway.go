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

var userSelectCols = []any{"id", "first_name", "last_name", "email", "phone_number", "events", "created_at", "updated_at"}

type UserGateway struct {
	pool *pgxpool.Pool
}

func NewUserGateway(pool *pgxpool.Pool) *UserGateway {
	return &UserGateway{pool: pool}
}

func (g *UserGateway) Kind() entity.Kind { return entity.KindUser }

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.Events, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if u.Events == nil {
		u.Events = []string{}
	}
	return u, nil
}

func (g *UserGateway) FindByID(ctx context.Context, id string) (*entity.User, error) {
	q, args, err := buildSelect(tableUsers, userSelectCols, userColumns, repo.Eq(repo.FieldID, id), nil)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(g.pool.QueryRow(ctx, q, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, mapError(err)
}

func (g *UserGateway) Find(ctx context.Context, filter repo.Filter, opts *repo.FindOptions) ([]entity.User, error) {
	q, args, err := buildSelect(tableUsers, userSelectCols, userColumns, filter, opts)
	if err != nil {
		return nil, err
	}
	rows, err := g.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (g *UserGateway) Exists(ctx context.Context, filter repo.Filter) (bool, error) {
	q, args, err := buildExists(tableUsers, userColumns, filter)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := g.pool.QueryRow(ctx, q, args...).Scan(&ok); err != nil {
		return false, mapError(err)
	}
	return ok, nil
}

// Create always starts with an empty back-reference set.
func (g *UserGateway) Create(ctx context.Context, rec entity.User) (*entity.User, error) {
	if rec.ID == "" {
		rec.ID = entity.NewID()
	}
	now := time.Now().UTC()
	q, args, err := dialect.Insert(tableUsers).Prepared(true).Rows(goqu.Record{
		"id":           rec.ID,
		"first_name":   rec.FirstName,
		"last_name":    nullable(rec.LastName),
		"email":        rec.Email,
		"phone_number": rec.PhoneNumber,
		"events":       goqu.L("'{}'::text[]"),
		"created_at":   now,
		"updated_at":   now,
	}).Returning(userSelectCols...).ToSQL()
	if err != nil {
		return nil, err
	}
	u, err := scanUser(g.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func userPatchRecord(p entity.UserPatch) goqu.Record {
	rec := goqu.Record{"updated_at": time.Now().UTC()}
	if p.FirstName != nil {
		rec["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		rec["last_name"] = *p.LastName
	}
	if p.Email != nil {
		rec["email"] = *p.Email
	}
	if p.PhoneNumber != nil {
		rec["phone_number"] = *p.PhoneNumber
	}
	return rec
}

func (g *UserGateway) PatchFields(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	q, args, err := dialect.Update(tableUsers).Prepared(true).
		Set(userPatchRecord(patch)).
		Where(goqu.C("id").Eq(id)).
		Returning(userSelectCols...).
		ToSQL()
	if err != nil {
		return nil, err
	}
	u, err := scanUser(g.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (g *UserGateway) Delete(ctx context.Context, id string) (int64, error) {
	q, args, err := buildDelete(tableUsers, id)
	if err != nil {
		return 0, err
	}
	tag, err := g.pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

func buildAttach(userID, eventID string) (string, []any, error) {
	return dialect.Update(tableUsers).Prepared(true).
		Set(goqu.Record{
			"events":     goqu.L("array_append(events, ?)", eventID),
			"updated_at": goqu.L("now()"),
		}).
		Where(
			goqu.C("id").Eq(userID),
			goqu.L("NOT (? = ANY(events))", eventID),
		).
		ToSQL()
}

func buildDetach(userID, eventID string) (string, []any, error) {
	return dialect.Update(tableUsers).Prepared(true).
		Set(goqu.Record{
			"events":     goqu.L("array_remove(events, ?)", eventID),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.C("id").Eq(userID)).
		ToSQL()
}

// AttachEvent is a single conditional update, so concurrent attaches of the
// same id never duplicate it. A missing user matches no row and is ignored.
func (g *UserGateway) AttachEvent(ctx context.Context, userID, eventID string) error {
	q, args, err := buildAttach(userID, eventID)
	if err != nil {
		return err
	}
	_, err = g.pool.Exec(ctx, q, args...)
	return mapError(err)
}

func (g *UserGateway) DetachEvent(ctx context.Context, userID, eventID string) error {
	q, args, err := buildDetach(userID, eventID)
	if err != nil {
		return err
	}
	_, err = g.pool.Exec(ctx, q, args...)
	return mapError(err)
}
