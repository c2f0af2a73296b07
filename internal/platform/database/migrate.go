package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
)

// Migration commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
	CommandUpTo    = "up-to"
)

// Commands lists every supported migration command.
var Commands = []string{CommandUp, CommandDown, CommandReset, CommandStatus, CommandVersion, CommandUpTo}

// MigrationTableName is the table goose uses to track applied migrations.
const MigrationTableName = "schema_migrations"

const migrationsDir = "migrations"

// goose keeps dialect, base FS and logger in package state.
var gooseMu sync.Mutex

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger. It does not exit; the error is returned
// to the caller by goose.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Migrate runs a goose command against db using its backend's embedded
// migrations. up-to takes the target version as its only argument.
func Migrate(ctx context.Context, db *DB, command string, args ...string) error {
	if !slices.Contains(Commands, command) {
		return fmt.Errorf("unknown migration command %q", command)
	}

	log := slog.Default().With(
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("driver", db.Backend.Name))

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetBaseFS(db.Backend.Migrations)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect(db.Backend.GooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	start := time.Now()
	var err error
	switch command {
	case CommandUp:
		err = goose.UpContext(ctx, db.DB, migrationsDir)
	case CommandDown:
		err = goose.DownContext(ctx, db.DB, migrationsDir)
	case CommandReset:
		err = goose.ResetContext(ctx, db.DB, migrationsDir)
	case CommandStatus:
		err = goose.StatusContext(ctx, db.DB, migrationsDir)
	case CommandVersion:
		err = goose.VersionContext(ctx, db.DB, migrationsDir)
	case CommandUpTo:
		if len(args) != 1 {
			return fmt.Errorf("%s requires a target version", CommandUpTo)
		}
		version, parseErr := strconv.ParseInt(args[0], 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid target version %q: %w", args[0], parseErr)
		}
		err = goose.UpToContext(ctx, db.DB, migrationsDir, version)
	}
	if err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration finished", slog.Duration("duration", time.Since(start)))
	return nil
}

// Version returns the schema version currently applied to db.
func Version(ctx context.Context, db *DB) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect(db.Backend.GooseDialect); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db.DB)
}
