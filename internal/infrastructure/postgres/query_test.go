package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-scheduler/internal/domain/repository"
)

func TestBuildSelect_FilterSortLimit(t *testing.T) {
	from := time.Date(2031, time.January, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)
	filter := repo.And(repo.Eq(repo.FieldUser, "u1"), repo.Between(repo.FieldStartDate, from, to))

	q, args, err := buildSelect(tableEvents, eventSelectCols, eventColumns, filter, &repo.FindOptions{Sort: repo.FieldStartDate, Limit: 5})
	require.NoError(t, err)

	assert.Contains(t, q, `FROM "events"`)
	assert.Contains(t, q, `"user_id" = $1`)
	assert.Contains(t, q, `"start_date" >= $2`)
	assert.Contains(t, q, `"start_date" <= $3`)
	assert.Contains(t, q, `ORDER BY "start_date" ASC, "id" ASC`)
	assert.Contains(t, q, `LIMIT $4`)
	require.Len(t, args, 4)
	assert.Equal(t, []any{"u1", from, to}, args[:3])
}

func TestBuildSelect_NilFilter(t *testing.T) {
	q, args, err := buildSelect(tableUsers, userSelectCols, userColumns, nil, nil)
	require.NoError(t, err)
	assert.NotContains(t, q, "WHERE")
	assert.Empty(t, args)
}

func TestBuildSelect_UnknownField(t *testing.T) {
	_, _, err := buildSelect(tableUsers, userSelectCols, userColumns, repo.Eq(repo.FieldStartDate, time.Now()), nil)
	assert.Error(t, err)

	_, _, err = buildSelect(tableUsers, userSelectCols, userColumns, nil, &repo.FindOptions{Sort: repo.FieldUser})
	assert.Error(t, err)
}

func TestBuildExists_OrBranches(t *testing.T) {
	t0 := time.Date(2031, time.January, 10, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	filter := repo.And(
		repo.Eq(repo.FieldUser, "u1"),
		repo.Or(repo.Between(repo.FieldStartDate, t0, t1), repo.Between(repo.FieldEndDate, t0, t1)),
	)

	q, args, err := buildExists(tableEvents, eventColumns, filter)
	require.NoError(t, err)
	assert.Contains(t, q, "SELECT EXISTS (SELECT 1 FROM \"events\"")
	assert.Contains(t, q, " OR ")
	assert.Equal(t, []any{"u1", t0, t1, t0, t1}, args)
}

func TestBuildAttachDetach(t *testing.T) {
	q, args, err := buildAttach("u1", "e1")
	require.NoError(t, err)
	assert.Contains(t, q, `UPDATE "users"`)
	assert.Contains(t, q, "array_append(events, $")
	assert.Contains(t, q, "= ANY(events))")
	assert.Len(t, args, 3)
	assert.Contains(t, args, "u1")
	assert.Contains(t, args, "e1")

	q, args, err = buildDetach("u1", "e1")
	require.NoError(t, err)
	assert.Contains(t, q, "array_remove(events, $")
	assert.ElementsMatch(t, []any{"e1", "u1"}, args)
}

func TestPatchRecords(t *testing.T) {
	name := "Ann"
	rec := userPatchRecord(entity.UserPatch{FirstName: &name})
	assert.Equal(t, "Ann", rec["first_name"])
	assert.Contains(t, rec, "updated_at")
	assert.NotContains(t, rec, "email")

	owner := "507f1f77bcf86cd799439011"
	erec := eventPatchRecord(entity.EventPatch{User: &owner})
	assert.Equal(t, owner, erec["user_id"])
	assert.NotContains(t, erec, "title")
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repo.ErrNotFound)

	var uv *repo.UniqueViolationError
	err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, repo.FieldEmail, uv.Field)

	err = mapError(&pgconn.PgError{Code: "23505", ConstraintName: "users_phone_number_key"})
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, repo.FieldPhoneNumber, uv.Field)

	other := &pgconn.PgError{Code: "40001"}
	assert.Same(t, other, mapError(other))
}
