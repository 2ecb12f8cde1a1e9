package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/logger"
	"github.com/bakery/backend/internal/infrastructure/migration"
	"github.com/bakery/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("usage")

// command is one subcommand; db commands get a connected migrator
type command struct {
	usage string
	help  string
	args  int
	local func(c *cli, args []string) error
	db    func(m *migration.Migrator, args []string) error
}

var commands = map[string]command{
	"up": {
		help: "Apply all pending migrations",
		db:   func(m *migration.Migrator, _ []string) error { return m.Up() },
	},
	"down": {
		help: "Roll back all migrations",
		db:   func(m *migration.Migrator, _ []string) error { return m.Down() },
	},
	"step": {
		usage: "<n>",
		help:  "Apply n migrations (negative rolls back)",
		args:  1,
		db: func(m *migration.Migrator, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return m.Steps(n)
		},
	},
	"goto": {
		usage: "<version>",
		help:  "Migrate up or down to a version",
		args:  1,
		db: func(m *migration.Migrator, args []string) error {
			v, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.GoTo(uint(v))
		},
	},
	"force": {
		usage: "<version>",
		help:  "Record a version without running it (dirty state recovery)",
		args:  1,
		db: func(m *migration.Migrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return m.Force(v)
		},
	},
	"status": {
		help: "Show the applied version and pending migrations",
		db: func(m *migration.Migrator, _ []string) error {
			st, err := m.Status()
			if err != nil {
				return err
			}
			fmt.Printf("version %d (dirty=%t), %d pending\n", st.Version, st.Dirty, len(st.Pending))
			for _, name := range st.Pending {
				fmt.Println("  -", name)
			}
			return nil
		},
	},
	"create": {
		usage: "<name> [description]",
		help:  "Write the next numbered migration pair",
		args:  1,
		local: (*cli).create,
	},
	"list": {
		help:  "List available migrations",
		local: (*cli).list,
	},
}

type cli struct {
	log    *zap.Logger
	dir    string
	source fs.FS
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	c := &cli{log: log, dir: *dir, source: migrations.FS}
	if *dir != "" {
		c.source = os.DirFS(*dir)
	}

	if err := c.run(flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			log.Error("Migration command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

func (c *cli) run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
	rest := args[1:]
	if len(rest) < cmd.args {
		return fmt.Errorf("%s needs %s: %w", args[0], cmd.usage, errUsage)
	}

	c.log.Debug("Migration command", zap.String("command", args[0]), zap.Strings("args", rest))
	if cmd.local != nil {
		return cmd.local(c, rest)
	}

	m, closeDB, err := c.connect()
	if err != nil {
		return err
	}
	defer closeDB()
	return cmd.db(m, rest)
}

// connect opens the configured postgres database; sqlite schemas come from the server's auto-migrate
func (c *cli) connect() (*migration.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver != "postgres" {
		return nil, nil, fmt.Errorf("versioned migrations target postgres, configured driver is %s", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, c.source, c.log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return m, func() {
		if err := m.Close(); err != nil {
			c.log.Warn("Closing migrator", zap.Error(err))
		}
	}, nil
}

func (c *cli) create(args []string) error {
	dir := c.dir
	if dir == "" {
		dir = defaultMigrationsDir
	}
	description := ""
	if len(args) > 1 {
		description = strings.Join(args[1:], " ")
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
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

func (c *cli) list(_ []string) error {
	names, err := migration.ListMigrations(c.source)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no migrations found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Bakery reporting schema migrations")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage: migrate [-path dir] [-log-level level] <command> [arguments]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, name := range []string{"up", "down", "step", "goto", "force", "status", "create", "list"} {
		cmd := commands[name]
		fmt.Fprintf(os.Stderr, "  %-24s %s\n", strings.TrimSpace(name+" "+cmd.usage), cmd.help)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "The database is read from config.toml or BAKERY_DATABASE_* variables.")
	fmt.Fprintln(os.Stderr, "Without -path the migrations built into the binary are used; create writes to ./migrations.")
}
