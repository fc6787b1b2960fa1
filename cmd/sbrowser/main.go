// Command sbrowser fetches pages, prints or submits their forms and
// downloads files, keeping cookies and referer across redirects.
// Usage: sbrowser [flags] get|post|forms|submit|download ...
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/sbrowser/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cli.Execute(ctx)
}
