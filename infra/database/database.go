// Package database opens the Postgres connection used by the
// repositories and migrates the schema.
package database

import (
	"errors"

	infrarepo "github.com/fundflow/fundflow/infra/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New opens a connection to the given Postgres URL and migrates the
// donation and campaign tables. Default per-statement transactions are
// skipped; all writes in this module go through the unit of work.
func New(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL is not set")
	}
	conn, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(&infrarepo.Campaign{}, &infrarepo.Donation{}); err != nil {
		return nil, err
	}
	return conn, nil
}
