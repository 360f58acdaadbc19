package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gymclient/internal/flagx"
)

var knownFlags = []string{"-a", "-d", "-s", "-k", "-t", "-i", "-e", "-l"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the gym API
//	-d string   credential store driver: sqlite, bolt or memory
//	-s string   credential store file
//	-k string   key file sealing stored credentials ("" disables sealing)
//	-t int      request timeout (in seconds)
//	-i int      online check interval (in seconds)
//	-e int      access token expiry skew (in seconds)
//	-l string   log level
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the gym API")
	fs.StringVar(&cfg.StoreDriver, "d", cfg.StoreDriver, "credential store driver (sqlite|bolt|memory)")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "credential store file")
	fs.StringVar(&cfg.StoreKeyPath, "k", cfg.StoreKeyPath, "credential sealing key file")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	expirySkew := fs.Int("e", int(cfg.ExpirySkew.Seconds()), "access token expiry skew (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.ExpirySkew = time.Duration(*expirySkew) * time.Second
}
