package postgres

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

const (
	tableUsers  = "users"
	tableEvents = "events"

	pgUniqueViolation = "23505"
)

var dialect = goqu.Dialect("postgres")

var (
	userColumns = map[repo.Field]string{
		repo.FieldID:          "id",
		repo.FieldEmail:       "email",
		repo.FieldPhoneNumber: "phone_number",
		repo.FieldCreatedAt:   "created_at",
	}
	eventColumns = map[repo.Field]string{
		repo.FieldID:        "id",
		repo.FieldUser:      "user_id",
		repo.FieldStartDate: "start_date",
		repo.FieldEndDate:   "end_date",
		repo.FieldCreatedAt: "created_at",
	}

	uniqueConstraints = map[string]repo.Field{
		"users_email_key":        repo.FieldEmail,
		"users_phone_number_key": repo.FieldPhoneNumber,
	}
)

// toExpression translates a domain filter into a goqu where expression.
// A nil filter yields a nil expression.
func toExpression(filter repo.Filter, columns map[repo.Field]string) (exp.Expression, error) {
	switch f := filter.(type) {
	case nil:
		return nil, nil
	case repo.All:
		parts, err := toExpressions(f, columns)
		if err != nil {
			return nil, err
		}
		return goqu.And(parts...), nil
	case repo.Any:
		parts, err := toExpressions(f, columns)
		if err != nil {
			return nil, err
		}
		return goqu.Or(parts...), nil
	case repo.Cond:
		col, ok := columns[f.Field]
		if !ok {
			return nil, fmt.Errorf("field %q is not queryable", f.Field)
		}
		switch f.Op {
		case repo.OpEq:
			return goqu.C(col).Eq(f.Value), nil
		case repo.OpGte:
			return goqu.C(col).Gte(f.Value), nil
		case repo.OpLte:
			return goqu.C(col).Lte(f.Value), nil
		}
		return nil, fmt.Errorf("unsupported operator %q", f.Op)
	}
	return nil, fmt.Errorf("unsupported filter %T", filter)
}

func toExpressions(filters []repo.Filter, columns map[repo.Field]string) ([]exp.Expression, error) {
	out := make([]exp.Expression, 0, len(filters))
	for _, sub := range filters {
		e, err := toExpression(sub, columns)
		if err != nil {
			return nil, err
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func buildSelect(table string, cols []any, columns map[repo.Field]string, filter repo.Filter, opts *repo.FindOptions) (string, []any, error) {
	ds := dialect.From(table).Prepared(true).Select(cols...)
	where, err := toExpression(filter, columns)
	if err != nil {
		return "", nil, err
	}
	if where != nil {
		ds = ds.Where(where)
	}
	if opts != nil {
		if opts.Sort != "" {
			col, ok := columns[opts.Sort]
			if !ok {
				return "", nil, fmt.Errorf("field %q is not sortable", opts.Sort)
			}
			if opts.Desc {
				ds = ds.Order(goqu.I(col).Desc(), goqu.I("id").Asc())
			} else {
				ds = ds.Order(goqu.I(col).Asc(), goqu.I("id").Asc())
			}
		}
		if opts.Limit > 0 {
			ds = ds.Limit(uint(opts.Limit))
		}
	}
	return ds.ToSQL()
}

func buildExists(table string, columns map[repo.Field]string, filter repo.Filter) (string, []any, error) {
	inner := dialect.From(table).Select(goqu.L("1"))
	where, err := toExpression(filter, columns)
	if err != nil {
		return "", nil, err
	}
	if where != nil {
		inner = inner.Where(where)
	}
	return dialect.Select(goqu.L("EXISTS ?", inner)).Prepared(true).ToSQL()
}

func buildDelete(table, id string) (string, []any, error) {
	return dialect.Delete(table).Prepared(true).Where(goqu.C("id").Eq(id)).ToSQL()
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// mapError turns driver errors into the store errors services understand.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		field, ok := uniqueConstraints[pgErr.ConstraintName]
		if !ok {
			field = repo.Field(pgErr.ColumnName)
		}
		return &repo.UniqueViolationError{Field: field, Constraint: pgErr.ConstraintName}
	}
	return err
}
