package repository

import (
	"context"

	"catalog/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// RepositoryFactory is a mock implementation of repository.RepositoryFactory.
type RepositoryFactory struct {
	mock.Mock
}

func (m *RepositoryFactory) AccountRepo() repository.AccountRepository {
	args := m.Called()

	return args.Get(0).(repository.AccountRepository)
}

func (m *RepositoryFactory) ProductRepo() repository.ProductRepository {
	args := m.Called()

	return args.Get(0).(repository.ProductRepository)
}

// TransactionManager is a test double that runs the unit of work against a
// fixed factory without any real transaction.
type TransactionManager struct {
	Factory repository.RepositoryFactory
}

func (m *TransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	return fn(m.Factory)
}
