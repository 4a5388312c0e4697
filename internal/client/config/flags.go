package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/billed/internal/flagx"
)

// parseFlags overlays Config with command-line flags:
//
//	-a string   address and port of the backend server
//	-i int      online check interval in seconds
//	-t string   transport, grpc or http
//	-d string   path of the local session database
//
// Only flags present in args are applied. Other arguments are filtered out
// with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-t", "-d"})

	fs := flag.NewFlagSet("billed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.Func("i", "online check interval (in seconds)", func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		cfg.OnlineCheckInterval = time.Duration(n) * time.Second
		return nil
	})
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport: grpc or http")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "session database path")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
