// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Command sqliteschema reconciles a SQLite database with a declared schema.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mdhender/sqliteschema/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqliteschema: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
