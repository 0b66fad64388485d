package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tmejia/predibet/internal/api"
	pkgconfig "github.com/tmejia/predibet/internal/pkg/config"
	"github.com/tmejia/predibet/internal/pkg/logging"
	"github.com/tmejia/predibet/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Usage report failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "path to the config file")
	flag.Parse()

	appConfig, err := pkgconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(&appConfig.Logging, "usage-report")

	store := storage.NewFileStore(appConfig.Data.Dir)
	client, err := api.NewClient(&appConfig.API, store)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	bill, err := client.UsageStats()
	if err != nil {
		return err
	}

	fmt.Printf("Billed requests this month: %d\n", bill.Requests)
	fmt.Printf("Estimated cost: %s USD (%s COP)\n", bill.PaymentUSD.StringFixed(2), bill.PaymentCOP.StringFixed(0))
	return nil
}
