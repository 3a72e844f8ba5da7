package repository

import "context"

// TransactionManager defines the interface for managing storage transactions.
// This allows the use case layer to make each cart mutation a single atomic
// read-modify-write step without depending on a specific driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a storage transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides a way to get repository instances that are bound to a specific transaction.
// This ensures all repository operations within a transaction use the same storage connection.
type RepositoryFactory interface {
	// CredentialRepo returns a CredentialRepository bound to the current transaction.
	CredentialRepo() CredentialRepository

	// CollectionRepo returns a CollectionRepository bound to the current transaction.
	CollectionRepo() CollectionRepository
}
