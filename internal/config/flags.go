package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Flag names registered by [BindFlags].
const (
	flagConfig         = "config"
	flagAddress        = "address"
	flagToken          = "token"
	flagRefreshToken   = "refresh-token"
	flagLogLevel       = "log-level"
	flagRequestTimeout = "request-timeout"
	flagStreamTimeout  = "stream-timeout"
	flagDB             = "db"
	flagPacingDelay    = "pacing-delay"
	flagQueueSize      = "queue-size"
	flagAutoPost       = "auto-post"
	flagSyncInterval   = "sync-interval"
	flagListen         = "listen"
	flagSignKey        = "token-sign-key"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// BindFlags registers every configuration flag on fs. All flags default to
// the zero value so that unset flags never override env or defaults.
//
// Flags:
//
//	-c/--config json file path with configs
//	-a/--address backend base URL
//	--token bearer token
//	--refresh-token refresh token
//	--log-level zerolog level
//	--request-timeout REST request timeout (e.g., "30s")
//	--stream-timeout streaming sync timeout (e.g., "6m")
//	--db sync history SQLite file
//	--pacing-delay delay before switching the displayed account
//	--queue-size progress queue capacity
//	--auto-post post classified transactions immediately
//	--sync-interval adaptive sync job period
//	--listen fake backend listen address host:port
//	--token-sign-key fake backend token signing key
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP(flagConfig, "c", "", "JSON config file path")
	fs.StringP(flagAddress, "a", "", "Backend base URL")
	fs.String(flagToken, "", "Bearer token")
	fs.String(flagRefreshToken, "", "Refresh token")
	fs.String(flagLogLevel, "", "Log level (debug, info, warn, error)")
	fs.Duration(flagRequestTimeout, 0, "REST request timeout (e.g., 30s)")
	fs.Duration(flagStreamTimeout, 0, "Streaming sync timeout (e.g., 6m)")
	fs.String(flagDB, "", "Sync history SQLite file")
	fs.Duration(flagPacingDelay, 0, "Delay before the progress view switches accounts")
	fs.Int(flagQueueSize, 0, "Progress event queue capacity")
	fs.Bool(flagAutoPost, false, "Post classified transactions immediately")
	fs.Duration(flagSyncInterval, 0, "Adaptive sync job period (0 disables)")
	fs.Var(&NetAddress{}, flagListen, "Fake backend listen address host:port")
	fs.String(flagSignKey, "", "Fake backend token signing key")
}

func readFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	var errs []error
	str := func(name string) string {
		v, err := fs.GetString(name)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	dur := func(name string) time.Duration {
		v, err := fs.GetDuration(name)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	queueSize, err := fs.GetInt(flagQueueSize)
	if err != nil {
		errs = append(errs, err)
	}
	autoPost, err := fs.GetBool(flagAutoPost)
	if err != nil {
		errs = append(errs, err)
	}

	listen := ""
	if f := fs.Lookup(flagListen); f != nil {
		listen = f.Value.String()
	} else {
		errs = append(errs, fmt.Errorf("flag %q not registered", flagListen))
	}

	cfg := &StructuredConfig{
		App: App{
			Token:        str(flagToken),
			RefreshToken: str(flagRefreshToken),
			LogLevel:     str(flagLogLevel),
		},
		Adapter: Adapter{
			HTTPAddress:    str(flagAddress),
			RequestTimeout: dur(flagRequestTimeout),
			StreamTimeout:  dur(flagStreamTimeout),
		},
		Storage: Storage{DB: DB{DSN: str(flagDB)}},
		Sync: Sync{
			PacingDelay: dur(flagPacingDelay),
			QueueSize:   queueSize,
			AutoPost:    autoPost,
		},
		Workers: Workers{SyncInterval: dur(flagSyncInterval)},
		FakeBank: FakeBank{
			Address:      listen,
			TokenSignKey: str(flagSignKey),
		},
		JSONFilePath: str(flagConfig),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("error reading flags: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
