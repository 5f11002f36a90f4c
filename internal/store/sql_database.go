package store

import (
	"github.com/peerhub/peerhub/migrations"
)

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
