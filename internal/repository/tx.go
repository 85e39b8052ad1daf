package repository

import "context"

// Tx is the part of a storage transaction every service needs
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
