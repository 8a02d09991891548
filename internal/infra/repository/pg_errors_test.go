package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	repo "shopapi/internal/repository"
)

func TestTranslateLockErr(t *testing.T) {
	deadlock := &pgconn.PgError{Code: "40P01"}
	lockTimeout := &pgconn.PgError{Code: "55P03"}
	uniqueViolation := &pgconn.PgError{Code: "23505"}

	assert.ErrorIs(t, translateLockErr(deadlock), repo.ErrLockContention)
	assert.ErrorIs(t, translateLockErr(lockTimeout), repo.ErrLockContention)

	// ラップされていても拾う
	wrapped := fmt.Errorf("query failed: %w", deadlock)
	assert.ErrorIs(t, translateLockErr(wrapped), repo.ErrLockContention)

	// ロック系以外はそのまま返す
	assert.Equal(t, uniqueViolation, translateLockErr(uniqueViolation))
	plain := errors.New("connection reset")
	assert.Equal(t, plain, translateLockErr(plain))
	assert.NoError(t, translateLockErr(nil))
}
