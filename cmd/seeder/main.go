package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dom/daily-checkin/internal/logger"
)

// Context is shared by every subcommand.
type Context struct {
	Client *APIClient
}

var CLI struct {
	API      string `help:"Backend base URL." env:"API_URL" default:"http://localhost:8080"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`

	Demo    DemoCmd    `cmd:"" help:"Register demo users with a week of definitions and check-ins."`
	Checkin CheckinCmd `cmd:"" help:"Back-fill random check-ins for an existing user."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("seeder"),
		kong.Description("Development tool that fills a daily check-in server with sample data"),
		kong.UsageOnError(),
	)

	if err := logger.Init(logger.Config{Level: CLI.LogLevel}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err := ctx.Run(&Context{Client: NewAPIClient(CLI.API)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
