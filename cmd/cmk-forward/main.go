// cmk-forward runs the cmk binary at scripts/cmk, relative to the current
// directory, with the same arguments and exits with its exit code.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/maxmcd/cmk/internal/forward"
	"github.com/maxmcd/cmk/internal/logger"
	"github.com/maxmcd/cmk/internal/process"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		logger.Print(err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		<-s
		cancel()
	}()

	os.Exit(forward.Run(ctx, wd, os.Args[1:], process.Exec{}))
}
