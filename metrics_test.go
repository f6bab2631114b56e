package store

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	err error
}

func (s stubRepo) FindAll(context.Context) ([]pgUser, error) { return []pgUser{{ID: 1}}, s.err }

func (s stubRepo) FindOne(_ context.Context, id int64) (*pgUser, error) {
	if s.err != nil || id != 1 {
		return nil, s.err
	}
	return &pgUser{ID: id}, nil
}

func (s stubRepo) InsertOne(context.Context, *pgUser) (int64, error) { return 2, s.err }

func (s stubRepo) UpdateOne(_ context.Context, id int64, u *pgUser) (*pgUser, error) {
	return u, s.err
}

func (s stubRepo) DeleteOne(context.Context, int64) (int64, error) { return 1, s.err }

func TestInstrumentCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics("storegen")
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(m))

	ok := Instrument[int64, pgUser](stubRepo{}, "users", m)
	_, err := ok.FindAll(ctx)
	require.NoError(t, err)
	_, err = ok.FindAll(ctx)
	require.NoError(t, err)
	id, err := ok.InsertOne(ctx, &pgUser{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	failing := Instrument[int64, pgUser](stubRepo{err: newConstraintViolation("dup", nil)}, "users", m)
	_, err = failing.InsertOne(ctx, &pgUser{Name: "Alice"})
	assert.True(t, IsConstraintViolation(err))

	down := Instrument[int64, pgUser](stubRepo{err: newConnectionError(errors.New("eof"))}, "users", m)
	_, err = down.DeleteOne(ctx, 1)
	assert.True(t, IsConnectionError(err))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("users", "find_all", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("users", "insert_one", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("users", "insert_one", "constraint_violation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("users", "delete_one", "connection_error")))

	assert.Equal(t, 4, testutil.CollectAndCount(m, "storegen_repository_operations_total"))
	assert.Equal(t, 3, testutil.CollectAndCount(m, "storegen_repository_operation_duration_seconds"))
}

func TestInstrumentPassesResultsThrough(t *testing.T) {
	ctx := context.Background()
	repo := Instrument[int64, pgUser](stubRepo{}, "users", NewMetrics("test"))

	u, err := repo.FindOne(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	missing, err := repo.FindOne(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated, err := repo.UpdateOne(ctx, 1, &pgUser{ID: 1, Name: "Alice B"})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
}

func TestRequire(t *testing.T) {
	ctx := context.Background()
	repo := stubRepo{}

	u, err := Require[int64, pgUser](ctx, repo, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = Require[int64, pgUser](ctx, repo, 2)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = Require[int64, pgUser](ctx, stubRepo{err: newConnectionError(errors.New("eof"))}, 1)
	assert.True(t, IsConnectionError(err))
}
