// Package config loads runtime configuration for the gym CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the gym API
//	-d string   credential store driver: sqlite, bolt or memory
//	-s string   credential store file
//	-k string   key file sealing stored credentials
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-e int      access token expiry skew (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://gym.example.com/api/v1.0",
//	  "store_driver": "bolt",
//	  "store_path": "~/.gymclient/session.bolt",
//	  "store_key_path": "~/.gymclient/session.key",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "expiry_skew": "30s",
//	  "log_level": "info"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
