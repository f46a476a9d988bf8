package repository

import "context"

// RepositoryFactory creates repository instances bound to a single transaction.
type RepositoryFactory interface {
	// AccountRepo returns an account repository bound to the transaction.
	AccountRepo() AccountRepository

	// ProductRepo returns a product repository bound to the transaction.
	ProductRepo() ProductRepository
}

// TransactionManager executes a unit of work inside a single database transaction.
// The callback receives a factory whose repositories all share that transaction;
// returning an error rolls everything back.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
