// Command etl runs one sales-data pipeline: extract a delimited file,
// normalize and type the columns, and fully replace a database table with the
// result. The pipeline is described by a JSON file under configs/pipelines/.
//
// Usage:
//
//	etl -config configs/pipelines/bmw_sales_mysql.json
//	etl -config configs/pipelines/bmw_sales_mysql.json -validate
//	etl -config ... -metrics-backend pushgateway -pushgateway-url http://localhost:9091
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"salesetl/internal/config"
	"salesetl/internal/metrics"
	"salesetl/internal/metrics/prompush"
	"salesetl/internal/pipeline"

	// Register all storage backends with the factory.
	_ "salesetl/internal/storage/all"
)

func main() {
	var (
		configPath     = flag.String("config", "configs/pipelines/bmw_sales_mysql.json", "path to the pipeline file")
		envFile        = flag.String("env", "", "optional .env file loaded before the pipeline file")
		validateOnly   = flag.Bool("validate", false, "validate the pipeline file and exit")
		metricsBackend = flag.String("metrics-backend", "none", "metrics backend: none or pushgateway")
		pushgatewayURL = flag.String("pushgateway-url", "", "Pushgateway base URL (pushgateway backend)")
		verbose        = flag.Bool("v", false, "log the resolved pipeline before running")
	)
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("etl: load env file %s: %v", *envFile, err)
		}
	} else {
		// Best effort: a local .env is a convenience, not a requirement.
		_ = godotenv.Load()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("etl: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("etl: %v", err)
	}
	if *validateOnly {
		log.Printf("etl: %s is valid", *configPath)
		return
	}
	if *verbose {
		log.Printf("etl: source=%s storage=%s table=%s transforms=%d",
			cfg.Source.Path, cfg.Storage.Kind, cfg.Storage.Table, len(cfg.Transform))
	}

	switch *metricsBackend {
	case "none", "":
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Storage.Table, *pushgatewayURL)
		if err != nil {
			log.Fatalf("etl: %v", err)
		}
		metrics.SetBackend(b)
	default:
		log.Fatalf("etl: unknown metrics backend %q", *metricsBackend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := pipeline.Run(ctx, cfg)
	if err := metrics.Flush(); err != nil {
		log.Printf("etl: metrics flush: %v", err)
	}
	if runErr != nil {
		log.Fatalf("etl: %v", runErr)
	}
}
