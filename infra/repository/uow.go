package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/fundflow/fundflow/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Every repository handed out by a UoW inside Do uses the
// same transaction session, so the donation and campaign writes of one
// command commit or roll back together.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.DonationRepository)(nil)).Elem(): func(db *gorm.DB) any { return NewDonationRepository(db) },
			reflect.TypeOf((*repository.CampaignRepository)(nil)).Elem(): func(db *gorm.DB) any { return NewCampaignRepository(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW
// bound to that transaction for repository access. Any error returned
// by fn rolls the whole transaction back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
}

// session returns the transaction when inside Do, the base connection otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// GetRepository provides generic, type-safe access to repositories
// using the current session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

// DonationRepository implements repository.UnitOfWork.
func (u *UoW) DonationRepository() (repository.DonationRepository, error) {
	repoAny, err := u.GetRepository(reflect.TypeOf((*repository.DonationRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.DonationRepository), nil
}

// CampaignRepository implements repository.UnitOfWork.
func (u *UoW) CampaignRepository() (repository.CampaignRepository, error) {
	repoAny, err := u.GetRepository(reflect.TypeOf((*repository.CampaignRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repoAny.(repository.CampaignRepository), nil
}

var _ repository.UnitOfWork = (*UoW)(nil)
