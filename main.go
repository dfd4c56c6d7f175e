package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"outbreak/communication/server"
	"outbreak/config"
	"outbreak/experiments"
	"outbreak/searcher"
	"outbreak/strategy"
	"outbreak/viewer"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	path := flag.String("config", "", "Path to a YAML config, defaults are used when empty")
	games := flag.Int("games", 0, "Number of games per matchup, overrides the config when positive")
	exploration := flag.String("exploration", "", "Comma separated exploration constants to test against the configured agent")
	view := flag.Bool("view", false, "Replay the last game in the terminal once the experiment is done")
	serve := flag.String("serve", "", "Serve decisions for an external game on this address instead of running an experiment")
	remote := flag.String("remote", "", "URL of an agent started with -serve that plays the zombies")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *games > 0 {
		cfg.Match.Games = *games
	}
	if *remote != "" {
		cfg.Remote = *remote
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}
	level, _ := cfg.Level()
	zerolog.SetGlobalLevel(level)

	if *serve != "" {
		mcts := searcher.NewMCTS(cfg.Search.Options()...)
		if err := server.NewServer(strategy.New(mcts, cfg.Classes)).Start(*serve); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
		return
	}

	var result experiments.Result
	if *exploration == "" {
		result, err = experiments.RunSelfPlay(cfg)
	} else {
		constants, perr := parseConstants(*exploration)
		if perr != nil {
			log.Fatal().Err(perr).Msg("invalid exploration constants")
		}
		result, err = experiments.RunExplorationExperiment(cfg, constants)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}

	if *view {
		if err := viewer.Run(result.Replays[len(result.Replays)-1]); err != nil {
			log.Fatal().Err(err).Msg("viewer failed")
		}
	}
}

func parseConstants(s string) ([]float64, error) {
	constants := []float64{}
	for _, field := range strings.Split(s, ",") {
		c, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}
		if c < 0 {
			return nil, fmt.Errorf("negative exploration constant %v", c)
		}
		constants = append(constants, c)
	}
	return constants, nil
}
