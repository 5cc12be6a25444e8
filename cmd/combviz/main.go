package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/combviz/internal/cli"
	"github.com/matzehuels/combviz/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	if err != nil {
		c.ReportError(err)
	}
	os.Exit(errors.ExitCode(err))
}
