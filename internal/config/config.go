package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Config holds everything the server needs at start-up.
type Config struct {
	Addr           string
	AllowedOrigins string
	LogLevel       string
	LogPretty      bool

	SearchDepth   int
	SearchWorkers int

	SnapshotDir         string
	ClockTime           time.Duration
	MatchmakingInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      "http://localhost:5173",
		LogLevel:            "info",
		SearchDepth:         3,
		SearchWorkers:       1,
		SnapshotDir:         "snapshots",
		ClockTime:           10 * time.Minute,
		MatchmakingInterval: time.Second,
	}
}

// Load builds the configuration from defaults, then CHESS_* environment variables,
// then command line flags.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowedOrigins, "origins", cfg.AllowedOrigins, "comma separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.LogPretty, "log-pretty", cfg.LogPretty, "human readable console logs")
	fs.IntVar(&cfg.SearchDepth, "depth", cfg.SearchDepth, "AI search depth in plies")
	fs.IntVar(&cfg.SearchWorkers, "workers", cfg.SearchWorkers, "goroutines scoring AI root moves")
	fs.StringVar(&cfg.SnapshotDir, "snapshots", cfg.SnapshotDir, "directory for saved games")
	fs.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "time per player")
	fs.DurationVar(&cfg.MatchmakingInterval, "matchmaking-interval", cfg.MatchmakingInterval, "how often the matchmaking queue is polled")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFromOS is Load with the process arguments and environment.
func LoadFromOS() (Config, error) {
	return Load(os.Args[1:], os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	var result *multierror.Error
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "%s", key))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "%s", key))
				return
			}
			*dst = d
		}
	}
	str("CHESS_ADDR", &c.Addr)
	str("CHESS_ORIGINS", &c.AllowedOrigins)
	str("CHESS_LOG_LEVEL", &c.LogLevel)
	if v := getenv("CHESS_LOG_PRETTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			result = multierror.Append(result, errors.Wrap(err, "CHESS_LOG_PRETTY"))
		} else {
			c.LogPretty = b
		}
	}
	num("CHESS_DEPTH", &c.SearchDepth)
	num("CHESS_WORKERS", &c.SearchWorkers)
	str("CHESS_SNAPSHOTS", &c.SnapshotDir)
	dur("CHESS_CLOCK", &c.ClockTime)
	dur("CHESS_MATCHMAKING_INTERVAL", &c.MatchmakingInterval)
	return result.ErrorOrNil()
}

func (c Config) Validate() error {
	var result *multierror.Error
	if c.Addr == "" {
		result = multierror.Append(result, errors.New("addr must be set"))
	}
	if c.SearchDepth < 1 || c.SearchDepth > 5 {
		result = multierror.Append(result, errors.Errorf("search depth %d out of range 1-5", c.SearchDepth))
	}
	if c.SearchWorkers < 1 {
		result = multierror.Append(result, errors.Errorf("search workers must be positive, got %d", c.SearchWorkers))
	}
	if c.SnapshotDir == "" {
		result = multierror.Append(result, errors.New("snapshot directory must be set"))
	}
	if c.ClockTime <= 0 {
		result = multierror.Append(result, errors.New("clock time must be positive"))
	}
	if c.MatchmakingInterval <= 0 {
		result = multierror.Append(result, errors.New("matchmaking interval must be positive"))
	}
	return result.ErrorOrNil()
}

// Origins splits AllowedOrigins for the websocket origin check.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
