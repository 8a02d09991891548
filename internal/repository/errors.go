package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// 在庫が要求数に満たない
	ErrInsufficientStock = errors.New("insufficient stock")

	// 一意制約違反（slug、order_numberなど）
	ErrDuplicate = errors.New("duplicate")

	// デッドロックやロック待ちタイムアウト。リトライで解消しうる
	ErrLockContention = errors.New("lock contention")
)
