// cmd/fixtureserver/main.go
//
// fixtureserver runs the two fixture origins standalone, so an external
// harness (or a manual browser session) can register inline documents and
// navigate against stable addresses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valpere/BiDiConformer/internal/fixtures"
	"github.com/valpere/BiDiConformer/internal/utils"
)

func main() {
	var (
		addr     = flag.String("addr", "127.0.0.1:8800", "primary origin listen address")
		altAddr  = flag.String("alt-addr", "127.0.0.1:8801", "alternate origin listen address")
		logLevel = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	log := utils.NewLoggerWithLevel(utils.ParseLevel(*logLevel))

	fx := fixtures.NewServer()
	if err := fx.Start(*addr, *altAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"primary": fx.PrimaryOrigin(),
		"alt":     fx.AltOrigin(),
	}).Info("fixture origins serving")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fx.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
