package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

func TestTriggerColumn(t *testing.T) {
	for _, r := range domain.LifecycleRules {
		col, err := triggerColumn(r.Trigger)
		require.NoError(t, err)
		assert.Equal(t, string(r.Trigger), col)
	}

	_, err := triggerColumn("created_at; DROP TABLE events")
	assert.Error(t, err)
}

func TestNullSeat(t *testing.T) {
	assert.False(t, nullSeat(nil).Valid)

	id := uuid.New()
	n := nullSeat(&id)
	assert.True(t, n.Valid)
	assert.Equal(t, id, n.UUID)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}

type fixedResult struct {
	n   int64
	err error
}

func (fixedResult) LastInsertId() (int64, error)   { return 0, nil }
func (r fixedResult) RowsAffected() (int64, error) { return r.n, r.err }

func TestRowsChanged(t *testing.T) {
	ok, err := rowsChanged(fixedResult{n: 1})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rowsChanged(fixedResult{n: 0})
	require.NoError(t, err)
	assert.False(t, ok, "a compare-and-set miss touches no rows")

	_, err = rowsChanged(fixedResult{err: errors.New("driver")})
	assert.Error(t, err)
}

func TestWithTx_JoinsOuterTransaction(t *testing.T) {
	outer := &sql.Tx{}
	ctx := context.WithValue(context.Background(), txKey{}, outer)

	called := false
	err := withTx(ctx, nil, func(inner context.Context) error {
		called = true
		assert.Same(t, outer, txFromContext(inner))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, txFromContext(context.Background()))
}
