package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/lehigh-university-libraries/coverscan/cmd"
)

var version = "0.1.0"

func main() {
	if err := fang.Execute(
		context.Background(),
		cmd.NewRootCmd(),
		fang.WithVersion(version),
		// serve shuts down gracefully on either signal
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
