package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access.
//
// All repositories obtained through a UnitOfWork share the same DB
// session, so every read and write inside Do is atomic: if the given
// function returns an error, the whole transaction is rolled back and
// no partial state is ever observable.
type UnitOfWork interface {
	// Do executes the given function within a transaction boundary.
	// The provided function receives a UnitOfWork bound to the
	// transaction for repository access.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface
	// type, bound to the current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	// Type-safe repository access (convenience methods).
	DonationRepository() (DonationRepository, error)
	CampaignRepository() (CampaignRepository, error)
}
