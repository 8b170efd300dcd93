package telemetry

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/tessen/smcmon/internal/errors"
	"codeberg.org/tessen/smcmon/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

type repository struct {
	db  *sql.DB
	log logger.Logger
	mu  sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()
	log := logger.Default()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	// WAL keeps single-writer inserts from blocking concurrent readers of
	// the database file (sqlite cli, reporting tools).
	dsn := cfg.DBPath + "?_journal=WAL&_auto_vacuum=2"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errFactory.WithData(ErrStorageInit, struct {
			Phase string
			Error string
		}{
			Phase: "open_database",
			Error: err.Error(),
		})
	}

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Telemetry repository initialized")

	return &repository{db: db, log: log}, nil
}

func (r *repository) Record(reading *Reading) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(insertReadingSQL,
		reading.Timestamp.Unix(),
		reading.CPUTemp,
		nullable(reading.GPUTemp),
		nullable(reading.AmbientTemp),
		nullable(reading.BatteryTemp),
		nullable(reading.HeatsinkTemp),
		nullable(reading.CPUPower),
		int64(boolToInt(reading.Throttling)),
		int64(reading.FanCount),
		reading.MaxFanRPM,
	)
	if err != nil {
		return errFactory.Wrap(ErrTransactionFailed, err)
	}

	return nil
}

func (r *repository) Close() error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}

	r.log.Debug().Msg("Telemetry repository closed")

	return nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
