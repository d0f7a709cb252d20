package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"wargame/config"
	"wargame/engine"
	"wargame/experiments"
	"wargame/logging"
	"wargame/transcript"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("wargame", pflag.ExitOnError)
	config.RegisterFlags(flags)
	experiment := flags.String("experiment", "", "run an experiment (heuristics, alpha_beta or parallelization) instead of a game")
	flags.Parse(os.Args[1:])

	path, _ := flags.GetString("config")
	opts, err := config.Load(path, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	closeLogs, err := logging.Setup(opts.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeLogs()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *experiment != "" {
		err = runExperiment(ctx, *experiment, opts)
	} else {
		err = runGame(ctx, opts)
	}
	if err != nil {
		log.Error().Err(err).Msg("stopped")
		closeLogs()
		os.Exit(1)
	}
}

func runExperiment(ctx context.Context, name string, opts config.Options) error {
	x, err := experiments.ByName(name)
	if err != nil {
		return err
	}
	if opts.Experiment.Games > 0 {
		x.Games = opts.Experiment.Games
	}
	x.Dim = opts.Game.Dim
	x.MaxTurns = opts.Game.MaxTurns
	x.Tables = opts.Tables()
	_, err = x.Run(ctx, opts.Experiment.Dir)
	return err
}

func runGame(ctx context.Context, opts config.Options) error {
	search := opts.SearchConfig()
	recorder, err := openRecorders(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close transcript")
		}
	}()

	e := engine.New(opts.NewGame(), opts.Mode(),
		engine.WithSearchConfig(search),
		engine.WithHumanSource(engine.NewConsoleSource(os.Stdin, os.Stdout)),
		engine.WithRecorder(recorder),
	)
	outcome, err := e.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n%v\n", e.Board())
	if winner, ok := outcome.Winner(); ok {
		fmt.Printf("%v wins in %d turns!\n", winner, e.Turn())
	} else {
		fmt.Printf("Game ended after %d turns: %v\n", e.Turn(), outcome)
	}
	return nil
}

func openRecorders(opts config.Options) (transcript.Recorder, error) {
	recorders := []transcript.Recorder{}
	if dir := opts.Transcript.Dir; dir != "" {
		info := transcript.GameInfo{
			AlphaBeta: opts.Search.AlphaBeta,
			MaxTime:   opts.Search.MaxTime,
			MaxTurns:  opts.Game.MaxTurns,
		}
		text, path, err := transcript.CreateTextFile(dir, info)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Msg("writing game trace")
		recorders = append(recorders, text)
	}
	if driver := opts.Transcript.Driver; driver != "none" {
		store, err := transcript.OpenStore(driver, opts.Transcript.DSN)
		if err != nil {
			transcript.Multi(recorders...).Close()
			return nil, err
		}
		recorders = append(recorders, store)
	}
	return transcript.Multi(recorders...), nil
}
