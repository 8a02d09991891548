package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	repo "shopapi/internal/repository"
)

// PostgresのSQLSTATE
const (
	pgDeadlockDetected = "40P01"
	pgLockNotAvailable = "55P03"
)

// デッドロックとロック待ちタイムアウトをErrLockContentionに寄せる。
// リトライで解消しうるので、内部エラーとは区別したい。
func translateLockErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDeadlockDetected, pgLockNotAvailable:
			return repo.ErrLockContention
		}
	}
	return err
}
