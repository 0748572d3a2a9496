package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-local/internal/app"
	"github.com/adanyl0v/go-todo-local/internal/cli"
	"github.com/adanyl0v/go-todo-local/internal/config"
	"github.com/adanyl0v/go-todo-local/internal/services"
)

func main() {
	app.InitDefaultLogger(os.Stderr)

	rootCmd := cli.NewRootCommand(openStore)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, verbose bool) (services.TaskStore, func(), error) {
	err := app.ReadEnv()
	if err != nil {
		return nil, nil, err
	}
	err = app.InitApplicationLogger(config.Global())
	if err != nil {
		return nil, nil, err
	}
	if !verbose {
		app.SetLogLevel(zerolog.WarnLevel)
	}

	err = app.InitTaskStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return app.TaskStore(), app.CloseStorage, nil
}
