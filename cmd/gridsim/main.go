// Gridsim runs turn-based agents on a grid world.
// Usage: gridsim [--version] [--plain] [--config <file>] [--script <file>]
// [--rounds <n>] [--seed <n>] [--radius <r>] [--trace] [world]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/gridsim/cli"
	"github.com/nathoo/gridsim/config"
	"github.com/nathoo/gridsim/engine"
	"github.com/nathoo/gridsim/loader"
	"github.com/nathoo/gridsim/logger"
	"github.com/nathoo/gridsim/tui"
	"github.com/nathoo/gridsim/types"
	"github.com/nathoo/gridsim/worlds"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: gridsim [--version] [--plain] [--config <file>] [--script <file>] " +
	"[--rounds <n>] [--seed <n>] [--radius <r>] [--trace] [world]\n"

// flags holds command-line settings. Pointer fields override the config
// only when given.
type flags struct {
	plain      bool
	trace      bool
	configPath string
	scriptFile string
	world      string
	rounds     *int
	seed       *int64
	radius     *float64
}

func main() {
	args := os.Args[1:]
	for _, a := range args {
		if a == "--version" {
			fmt.Printf("gridsim %s (commit %s, built %s)\n", version, commit, date)
			return
		}
	}

	f, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n%s", err, usage)
		os.Exit(1)
	}
	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (flags, error) {
	var f flags
	next := func(i *int, name string) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		*i++
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--plain":
			f.plain = true
		case "--trace":
			f.trace = true
		case "--config", "--script", "--rounds", "--seed", "--radius":
			v, err := next(&i, arg)
			if err != nil {
				return f, err
			}
			if err := f.set(arg, v); err != nil {
				return f, err
			}
		default:
			if f.world != "" {
				return f, fmt.Errorf("unexpected argument %q", arg)
			}
			f.world = arg
		}
	}
	return f, nil
}

func (f *flags) set(name, v string) error {
	switch name {
	case "--config":
		f.configPath = v
	case "--script":
		f.scriptFile = v
	case "--rounds":
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("--rounds: %w", err)
		}
		f.rounds = &n
	case "--seed":
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("--seed: %w", err)
		}
		f.seed = &n
	case "--radius":
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("--radius: %w", err)
		}
		f.radius = &r
	}
	return nil
}

// apply overrides cfg with the flags that were given.
func (f flags) apply(cfg *config.Config) {
	if f.world != "" {
		cfg.World = f.world
	}
	if f.plain || f.scriptFile != "" {
		cfg.Plain = true
	}
	if f.trace {
		cfg.Trace = true
	}
	if f.rounds != nil {
		cfg.MaxRounds = *f.rounds
	}
	if f.seed != nil {
		cfg.Seed = *f.seed
	}
	if f.radius != nil {
		cfg.VisionRadius = *f.radius
	}
}

func engineOptions(cfg config.Config, log logrus.FieldLogger) []engine.Option {
	return []engine.Option{
		engine.WithLogger(log),
		engine.WithSeed(cfg.Seed),
		engine.WithMaxRounds(cfg.MaxRounds),
		engine.WithEventCapacity(cfg.EventCapacity),
	}
}

func run(f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Use the plain interface if asked to, or if stdout is not a terminal.
	plain := cfg.Plain || !isTerminal()

	// The TUI owns the screen, so it only logs to a file.
	var fallback io.Writer
	if plain {
		fallback = os.Stderr
	}
	log, closeLog, err := logger.New(cfg.Log, fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	def, err := loadWorld(cfg.World, log)
	if err != nil {
		return err
	}

	opts := worlds.Options{
		Engine:       engineOptions(cfg, log),
		VisionRadius: cfg.VisionRadius,
		Player:       tui.Spawn,
	}

	if !plain {
		built, err := worlds.Build(def, opts)
		if err != nil {
			return err
		}
		defer built.Close()
		player, ok := built.Player.(*tui.Player)
		if !ok {
			return errors.New("world has no player")
		}
		return tui.Run(built.World, player, tui.Options{
			Title:   built.Title,
			SaveDir: cfg.SaveDir,
			Trace:   cfg.Trace,
		})
	}

	// Script mode: read commands from a file and echo them.
	in := io.Reader(os.Stdin)
	if f.scriptFile != "" {
		sf, err := os.Open(f.scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer sf.Close()
		in = sf
	}
	opts.Player = cli.Options{
		In:        in,
		Out:       os.Stdout,
		SaveDir:   cfg.SaveDir,
		Title:     def.Title,
		Trace:     cfg.Trace,
		EchoInput: f.scriptFile != "",
	}.Spawn

	built, err := worlds.Build(def, opts)
	if err != nil {
		return err
	}
	defer built.Close()

	fmt.Printf("%s\n\n", built.Title)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = built.World.RunContext(ctx)
	if errors.Is(err, context.Canceled) {
		log.WithField("round", built.World.Round()).Info("Interrupted.")
		return nil
	}
	log.WithField("round", built.World.Round()).Info("World stopped.")
	return err
}

// loadWorld reads the world definition at path, or returns the stock maze
// when path is empty.
func loadWorld(path string, log logrus.FieldLogger) (*types.WorldDef, error) {
	if path == "" {
		return worlds.Default(), nil
	}
	def, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}
	for _, w := range def.Warnings {
		log.WithField("path", path).Warn(w)
	}
	return def, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
