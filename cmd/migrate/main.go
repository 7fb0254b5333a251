// Command migrate manages the feed store schema.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/astroselling/falabella-sdk/internal/infrastructure/config"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/logger"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/migration"
	"github.com/astroselling/falabella-sdk/migrations"
)

func main() {
	var (
		configPath     string
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&configPath, "config", "", "Path to config.toml (default: search . and /etc/falabella-sdk)")
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	_, log = logger.WithRunID(context.Background(), log, uuid.NewString())

	if command == "list" {
		if err := listMigrations(migrationsPath); err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		return
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	m, db, err := openMigrator(cfg, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
		if db != nil {
			_ = db.Close()
		}
	}()

	if err := run(m, command, args[1:]); err != nil {
		log.Error("Migration command failed", zap.String("command", command), zap.Error(err))
		os.Exit(1)
	}
}

// openMigrator uses the embedded migrations unless a directory was given.
// The returned *sql.DB is nil when golang-migrate owns the connection.
func openMigrator(cfg *config.Config, path string, log *zap.Logger) (*migration.Migrator, *sql.DB, error) {
	dsn := cfg.Database.DSN()
	if path != "" {
		log.Info("Using migrations directory", zap.String("path", path))
		m, err := migration.NewFromPath(dsn, path, log)
		return m, nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to reach database: %w", err)
	}
	src, err := migration.NewSource(migrations.FS, ".")
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	m, err := migration.New(db, src, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, db, nil
}

func run(m *migration.Migrator, command string, args []string) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		n, err := intArg(args, "steps")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "goto")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("goto: version must not be negative")
		}
		return m.GoTo(uint(v))
	case "force":
		v, err := intArg(args, "force")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version: %d, dirty: %t\n", version, dirty)
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func listMigrations(path string) error {
	var fsys fs.FS = migrations.FS
	if path != "" {
		fsys = os.DirFS(path)
	}
	src, err := migration.NewSource(fsys, ".")
	if err != nil {
		return err
	}
	defer src.Close()

	list, err := migration.ListMigrations(src)
	if err != nil {
		return err
	}
	for _, name := range list {
		fmt.Println(name)
	}
	return nil
}

func intArg(args []string, command string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s: missing argument", command)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q: %w", command, args[0], err)
	}
	return n, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: migrate [flags] <command> [args]

Manages the falabella_feeds schema of the feed store.

Commands:
  up            Apply all pending migrations
  down          Roll back all migrations
  steps N       Apply N migrations (negative N rolls back)
  goto V        Migrate to version V
  force V       Mark version V as applied without running it
  version       Print the applied version
  list          List available migrations

Flags:
`)
	flag.PrintDefaults()
}
