// Package config loads run settings from defaults, an optional JSON or YAML
// file, WARGAME_ environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wargame/engine"
	"wargame/game"
	"wargame/logging"
	"wargame/meta"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "WARGAME"

type GameOptions struct {
	Mode     string `mapstructure:"mode"`
	Dim      int    `mapstructure:"dim"`
	MaxTurns int    `mapstructure:"maxTurns"`
}

type SearchOptions struct {
	MaxDepth   int           `mapstructure:"maxDepth"`
	MaxTime    time.Duration `mapstructure:"maxTime"`
	Heuristic  int           `mapstructure:"heuristic"`
	AlphaBeta  bool          `mapstructure:"alphaBeta"`
	Goroutines int           `mapstructure:"goroutines"`
	Randomize  bool          `mapstructure:"randomize"`
	Seed       uint64        `mapstructure:"seed"`
}

// UnitOptions overrides the unit tables. Rows and columns follow the unit
// kinds AI, Tech, Virus, Program, Firewall.
type UnitOptions struct {
	Damage             [][]int `mapstructure:"damage"`
	Repair             [][]int `mapstructure:"repair"`
	MaxHealth          []int   `mapstructure:"maxHealth"`
	SelfDestructDamage int     `mapstructure:"selfDestructDamage"`
}

type TranscriptOptions struct {
	Dir    string `mapstructure:"dir"`
	Driver string `mapstructure:"driver"` // none, sqlite or postgres
	DSN    string `mapstructure:"dsn"`
}

type ExperimentOptions struct {
	Games int    `mapstructure:"games"`
	Dir   string `mapstructure:"dir"`
}

type Options struct {
	Game       GameOptions       `mapstructure:"game"`
	Search     SearchOptions     `mapstructure:"search"`
	Units      UnitOptions       `mapstructure:"units"`
	Transcript TranscriptOptions `mapstructure:"transcript"`
	Logging    logging.Config    `mapstructure:"logging"`
	Experiment ExperimentOptions `mapstructure:"experiment"`

	tables *game.Tables
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"mode":              "game.mode",
	"dim":               "game.dim",
	"max-turns":         "game.maxTurns",
	"max-depth":         "search.maxDepth",
	"max-time":          "search.maxTime",
	"heuristic":         "search.heuristic",
	"alpha-beta":        "search.alphaBeta",
	"goroutines":        "search.goroutines",
	"randomize":         "search.randomize",
	"seed":              "search.seed",
	"transcript-dir":    "transcript.dir",
	"transcript-driver": "transcript.driver",
	"transcript-dsn":    "transcript.dsn",
	"log-level":         "logging.level",
	"log-file":          "logging.file",
	"graylog":           "logging.graylog",
	"games":             "experiment.games",
	"experiment-dir":    "experiment.dir",
}

// RegisterFlags defines the flags Load understands on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a JSON or YAML configuration file")
	fs.StringP("mode", "m", meta.GAME_MODE, "game mode: manual, attacker, defender or auto")
	fs.Int("dim", meta.DIM, "board side length")
	fs.IntP("max-turns", "t", meta.MAX_TURNS, "turn limit, 0 for none")
	fs.IntP("max-depth", "d", meta.MAX_DEPTH, "deepest search ply")
	fs.Duration("max-time", meta.MAX_TIME, "search budget per computer move")
	fs.Int("heuristic", meta.HEURISTIC, "evaluator: 0, 1 or 2")
	fs.Bool("alpha-beta", meta.ALPHA_BETA, "prune with alpha-beta")
	fs.Int("goroutines", meta.GO_ROUTINES, "root search workers")
	fs.Bool("randomize", false, "shuffle equal root actions with --seed")
	fs.Uint64("seed", 0, "seed for --randomize")
	fs.String("transcript-dir", ".", "directory for text traces, empty to disable")
	fs.String("transcript-driver", "none", "SQL transcript store: none, sqlite or postgres")
	fs.String("transcript-dsn", "", "SQL transcript data source")
	fs.String("log-level", "info", "TRACE, DEBUG, INFO, WARN or ERROR")
	fs.String("log-file", "", "also log to this file")
	fs.String("graylog", "", "also log to this GELF UDP address")
	fs.Int("games", 0, "games per matchup in experiment runs, 0 for the experiment default")
	fs.String("experiment-dir", "experiments", "directory for experiment CSV files")
}

func setDefaults(v *viper.Viper) {
	defaults := game.DefaultTables()

	v.SetDefault("game.mode", meta.GAME_MODE)
	v.SetDefault("game.dim", meta.DIM)
	v.SetDefault("game.maxTurns", meta.MAX_TURNS)

	v.SetDefault("search.maxDepth", meta.MAX_DEPTH)
	v.SetDefault("search.maxTime", meta.MAX_TIME)
	v.SetDefault("search.heuristic", meta.HEURISTIC)
	v.SetDefault("search.alphaBeta", meta.ALPHA_BETA)
	v.SetDefault("search.goroutines", meta.GO_ROUTINES)
	v.SetDefault("search.randomize", false)
	v.SetDefault("search.seed", 0)

	v.SetDefault("units.damage", rows(defaults.Damage))
	v.SetDefault("units.repair", rows(defaults.Repair))
	v.SetDefault("units.maxHealth", defaults.MaxHealth[:])
	v.SetDefault("units.selfDestructDamage", defaults.SelfDestructDamage)

	v.SetDefault("transcript.dir", ".")
	v.SetDefault("transcript.driver", "none")
	v.SetDefault("transcript.dsn", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.graylog", "")

	v.SetDefault("experiment.games", 0)
	v.SetDefault("experiment.dir", "experiments")
}

func rows(m [game.NumKinds][game.NumKinds]int) [][]int {
	out := make([][]int, len(m))
	for i := range m {
		out[i] = append([]int(nil), m[i][:]...)
	}
	return out
}

// Load reads the file at path (skipped when empty) and the flags in flags
// (may be nil) over the defaults, then validates the result.
func Load(path string, flags *pflag.FlagSet) (Options, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("error reading config file: %w", err)
		}
	}
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Options{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks every setting and builds the unit tables.
func (o *Options) Validate() error {
	var errs []error
	if _, err := engine.ParseMode(o.Game.Mode); err != nil {
		errs = append(errs, err)
	}
	if o.Game.Dim < 4 || o.Game.Dim > game.MaxDim {
		errs = append(errs, fmt.Errorf("game.dim must be between 4 and %d, got %d", game.MaxDim, o.Game.Dim))
	}
	if o.Game.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("game.maxTurns must not be negative, got %d", o.Game.MaxTurns))
	}
	if o.Search.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("search.maxDepth must be at least 1, got %d", o.Search.MaxDepth))
	}
	if o.Search.MaxTime <= 0 {
		errs = append(errs, fmt.Errorf("search.maxTime must be positive, got %v", o.Search.MaxTime))
	}
	if _, err := game.HeuristicByIndex(o.Search.Heuristic); err != nil {
		errs = append(errs, err)
	}
	if o.Search.Goroutines < 1 {
		errs = append(errs, fmt.Errorf("search.goroutines must be at least 1, got %d", o.Search.Goroutines))
	}
	switch o.Transcript.Driver {
	case "none", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown transcript.driver %q", o.Transcript.Driver))
	}
	if _, err := logging.ParseLevel(o.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	if o.Experiment.Games < 0 {
		errs = append(errs, fmt.Errorf("experiment.games must not be negative, got %d", o.Experiment.Games))
	}

	u := o.Units
	tables, err := game.NewTables(u.Damage, u.Repair, u.MaxHealth, u.SelfDestructDamage)
	if err != nil {
		errs = append(errs, fmt.Errorf("units: %w", err))
	}
	o.tables = tables
	return errors.Join(errs...)
}

func (o Options) Mode() engine.Mode {
	m, _ := engine.ParseMode(o.Game.Mode)
	return m
}

// Tables returns the validated unit tables.
func (o Options) Tables() *game.Tables {
	if o.tables == nil {
		return game.DefaultTables()
	}
	return o.tables
}

func (o Options) SearchConfig() engine.SearchConfig {
	s := o.Search
	return engine.SearchConfig{
		MaxDepth:   s.MaxDepth,
		MaxTime:    s.MaxTime,
		Heuristic:  s.Heuristic,
		AlphaBeta:  s.AlphaBeta,
		Goroutines: s.Goroutines,
		Randomize:  s.Randomize,
		Seed:       s.Seed,
		Metrics:    true,
	}
}

// NewGame builds the starting position.
func (o Options) NewGame() *game.GameState {
	return game.NewGameState(o.Game.Dim, o.Tables(), o.Game.MaxTurns)
}
