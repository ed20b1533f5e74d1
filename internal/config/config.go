// Package config loads the server's environment/process interface
// (spec.md 6): the listening port, the signed-token secret, the
// track-source base URL, and the stats database path. Grounded on
// Seednode-partybox's cobra+viper layering (config.go's newCmd), so
// every setting is a flag with a matching env var and a sane default,
// generalized from partybox's single monolithic Config to this
// repo's narrower process surface.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully-resolved process configuration for cmd/server.
type Config struct {
	Port                string
	SessionSecret       string
	TrackSourceBaseURL  string
	StatsDBPath         string
	ShutdownDrainSecs   int
}

// BindFlags registers cfg's fields as flags on cmd, each overridable by
// the matching BEATTRACK_-prefixed environment variable via viper, the
// way partybox's newCmd binds pflag.FlagSet to a viper instance.
func BindFlags(cmd *cobra.Command, cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("BEATTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := cmd.Flags()
	fs.StringVar(&cfg.Port, "port", "8080", "TCP port the transport and /health listen on (env: BEATTRACK_PORT)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "HKDF secret used to verify signed session tokens; empty disables auth (env: BEATTRACK_SESSION_SECRET)")
	fs.StringVar(&cfg.TrackSourceBaseURL, "track-source-base-url", "", "override the Deezer API base URL, e.g. for a test double (env: BEATTRACK_TRACK_SOURCE_BASE_URL)")
	fs.StringVar(&cfg.StatsDBPath, "stats-db-path", "", "sqlite path for the stats sink; empty uses the noop sink (env: BEATTRACK_STATS_DB_PATH)")
	fs.IntVar(&cfg.ShutdownDrainSecs, "shutdown-drain-secs", 10, "seconds to drain connections before force-exit on SIGINT/SIGTERM (env: BEATTRACK_SHUTDOWN_DRAIN_SECS)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
