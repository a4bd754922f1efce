package database

import (
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

// RunMigrations applies goose migrations from dir against the master.
func RunMigrations(db *dbpg.DB, dir string) error {
	if db == nil || db.Master == nil {
		return fmt.Errorf("database master connection is nil")
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db.Master, dir); err != nil {
		return fmt.Errorf("apply migrations from %s: %w", dir, err)
	}

	zlog.Logger.Info().Str("dir", dir).Msg("migrations applied")
	return nil
}
