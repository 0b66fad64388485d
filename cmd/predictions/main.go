package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tmejia/predibet/internal/analysis"
	"github.com/tmejia/predibet/internal/api"
	"github.com/tmejia/predibet/internal/ledger"
	pkgconfig "github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/logging"
	"github.com/tmejia/predibet/internal/pkg/storage"
	"github.com/tmejia/predibet/internal/repository"
)

const defaultConfigPath = "configs/production.yaml"

type cliConfig struct {
	configPath    string
	mode          string
	date          string
	remote        bool
	previousDays  int
	rebuildLedger bool
	from          string
	to            string
	leagues       string // comma-separated league ids
}

func main() {
	if err := run(); err != nil {
		slog.Error("Predictions run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cli := parseFlags()

	runCfg, err := cli.runConfig()
	if err != nil {
		return err
	}

	appConfig, err := pkgconfig.Load(cli.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.Setup(&appConfig.Logging, "predictions")

	store := storage.NewFileStore(appConfig.Data.Dir)
	client, err := api.NewClient(&appConfig.API, store)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	repo, err := repository.New(appConfig, client, store, logger)
	if err != nil {
		return err
	}

	orchestrator := analysis.New(appConfig, repo, ledger.New(store), store, logger)

	if appConfig.Telegram.BotToken != "" {
		notifier, err := analysis.NewNotifier(&appConfig.Telegram, logger)
		if err != nil {
			logger.Warn("Continuing without Telegram notifications", "error", err)
		} else {
			orchestrator = orchestrator.WithNotifier(notifier)
		}
	}
	if appConfig.Postgres.DSN != "" {
		mirror, err := storage.NewPostgresMirror(&appConfig.Postgres)
		if err != nil {
			logger.Warn("Continuing without PostgreSQL mirror", "error", err)
		} else {
			defer mirror.Close()
			orchestrator = orchestrator.WithMirror(mirror)
		}
	}

	if bill, err := client.UsageStats(); err != nil {
		logger.Warn("Failed to compute usage stats", "error", err)
	} else {
		logger.Info("Current month usage", "requests", bill.Requests, "cop", bill.PaymentCOP.String())
	}

	return orchestrator.Run(runCfg)
}

func parseFlags() cliConfig {
	var cli cliConfig
	flag.StringVar(&cli.configPath, "config", defaultConfigPath, "path to the config file")
	flag.StringVar(&cli.mode, "mode", "analyze", "run mode: analyze, backfill, fixtures-index or standings")
	flag.StringVar(&cli.date, "date", "today", "analysis date: YYYY-MM-DD, today, tomorrow or yesterday")
	flag.BoolVar(&cli.remote, "remote", false, "allow fetching from the remote API")
	flag.IntVar(&cli.previousDays, "days", 0, "backfill: how many days before the date to include")
	flag.BoolVar(&cli.rebuildLedger, "rebuild-ledger", false, "backfill: reset the outcome ledger first")
	flag.StringVar(&cli.from, "from", "", "fixtures-index: range start (YYYY-MM-DD)")
	flag.StringVar(&cli.to, "to", "", "fixtures-index: range end (YYYY-MM-DD), optional")
	flag.StringVar(&cli.leagues, "leagues", "", "comma-separated league ids to restrict refresh modes to")
	flag.Parse()
	return cli
}

func (c cliConfig) runConfig() (analysis.RunConfig, error) {
	leagueIDs, err := parseLeagueIDs(c.leagues)
	if err != nil {
		return analysis.RunConfig{}, err
	}

	runCfg := analysis.RunConfig{
		Mode:          analysis.Mode(c.mode),
		Date:          c.date,
		Remote:        c.remote,
		PreviousDays:  c.previousDays,
		RebuildLedger: c.rebuildLedger,
		From:          c.from,
		To:            c.to,
		LeagueIDs:     leagueIDs,
	}
	if err := runCfg.Validate(); err != nil {
		return analysis.RunConfig{}, err
	}
	return runCfg, nil
}

func parseLeagueIDs(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid league id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
