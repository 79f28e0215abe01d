// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command manage runs administrative tasks against the yamdb database.
//
// # Usage
//
//	manage migrate up|down [steps]|status
//	manage createsuperuser -email <email> -username <name>
//	manage setrole -email <email> -role <user|moderator|admin>
//	manage list <users|genres|categories|titles|reviews|comments> [-limit n] [-page n] [-search s] [-title id] [-review id]
//
// It reads the same environment as the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/logger"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
)

// errUsage marks invalid invocations; main prints the usage text for it.
var errUsage = errors.New("invalid usage")

const usage = `usage:
  manage migrate up|down [steps]|status
  manage createsuperuser -email <email> -username <name>
  manage setrole -email <email> -role <user|moderator|admin>
  manage list <users|genres|categories|titles|reviews|comments> [-limit n] [-page n] [-search s] [-title id] [-review id]
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintln(os.Stderr, "manage:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Debug)

	// Migrations open their own connection through golang-migrate.
	if args[0] == "migrate" {
		return migrateCommand(cfg, log, args[1:], out)
	}

	startupCtx, cancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer cancel()

	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	app := newApp(pool)

	switch args[0] {
	case "createsuperuser":
		return app.createSuperuser(ctx, args[1:], out)
	case "setrole":
		return app.setRole(ctx, args[1:], out)
	case "list":
		return app.list(ctx, args[1:], out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}
