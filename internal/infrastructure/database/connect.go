package database

import (
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

// ConnectWithRetries opens the master (and optional slave) connections and
// keeps retrying with a fixed delay until the database answers a ping. The
// stitching service cannot start without its panorama registry, so startup
// blocks here rather than serving requests it cannot record.
func ConnectWithRetries(masterDSN string, slaves []string, opts *dbpg.Options, retries, delaySec int) (*dbpg.DB, error) {
	if retries <= 0 {
		retries = 1
	}
	if delaySec <= 0 {
		delaySec = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		zlog.Logger.Info().Int("attempt", attempt).Int("retries", retries).Msg("connecting to database")

		db, err := connectOnce(masterDSN, slaves, opts)
		if err == nil {
			zlog.Logger.Info().Msg("database connection established")
			return db, nil
		}

		lastErr = err
		zlog.Logger.Warn().Err(err).Int("attempt", attempt).Msg("database connection failed")
		if attempt < retries {
			time.Sleep(time.Duration(delaySec) * time.Second)
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", retries, lastErr)
}

func connectOnce(masterDSN string, slaves []string, opts *dbpg.Options) (*dbpg.DB, error) {
	db, err := dbpg.New(masterDSN, slaves, opts)
	if err != nil {
		return nil, err
	}
	if db.Master == nil {
		return nil, fmt.Errorf("master connection is nil")
	}

	if err := db.Master.Ping(); err != nil {
		db.Master.Close()
		for _, s := range db.Slaves {
			if s != nil {
				s.Close()
			}
		}
		return nil, fmt.Errorf("ping master: %w", err)
	}

	return db, nil
}
