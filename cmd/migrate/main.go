package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mfgops/backend/internal/infrastructure/config"
	"github.com/mfgops/backend/internal/infrastructure/logger"
	"github.com/mfgops/backend/internal/infrastructure/migration"
)

const defaultMigrationsPath = "migrations"

type cli struct {
	log  *zap.Logger
	path string
}

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

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
	defer func() {
		_ = logger.Sync(log)
	}()

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	c := &cli{log: log, path: absPath}
	if err := c.run(args[0], args[1:]); err != nil {
		log.Fatal("Command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func (c *cli) run(command string, args []string) error {
	c.log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", c.path),
	)

	// create and list work without a database connection
	switch command {
	case "create":
		return c.create(args)
	case "list":
		return c.list()
	}

	m, cleanup, err := c.connect()
	if err != nil {
		return err
	}
	defer cleanup()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		target, err := intArg(args, "target version")
		if err != nil {
			return err
		}
		if target < 0 {
			return fmt.Errorf("target version cannot be negative")
		}
		return m.GoTo(uint(target))
	case "force":
		target, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return m.Force(target)
	case "version":
		return c.showVersion(m)
	case "drop":
		return c.drop(m, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) connect() (*migration.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, c.path, c.log)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}

	cleanup := func() {
		m.Close()
		db.Close()
	}
	return m, cleanup, nil
}

func (c *cli) create(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("migration name required, usage: migrate create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(c.path, args[0], description)
	if err != nil {
		return err
	}
	c.log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func (c *cli) list() error {
	migrations, err := migration.ListMigrations(c.path)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		c.log.Info("No migrations found")
		return nil
	}
	c.log.Info("Available migrations", zap.Int("count", len(migrations)))
	for _, m := range migrations {
		fmt.Println("  -", m)
	}
	return nil
}

func (c *cli) showVersion(m *migration.Migrator) error {
	current, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if current == 0 {
		c.log.Info("No migrations applied")
		return nil
	}
	c.log.Info("Current migration version",
		zap.Uint("version", current),
		zap.Bool("dirty", dirty),
	)
	return nil
}

func (c *cli) drop(m *migration.Migrator, args []string) error {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return m.Drop()
		}
	}
	return fmt.Errorf("drop cancelled, use 'migrate drop -confirm' to confirm")
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

func printUsage() {
	fmt.Println(`Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects (DANGEROUS)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level (default: info)`)
}
