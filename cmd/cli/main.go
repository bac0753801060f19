package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	_ "github.com/lib/pq"

	"github.com/cubny/farewatch"
	"github.com/cubny/farewatch/internal/logger"
	"github.com/cubny/farewatch/internal/sqlsource"
)

func main() {
	infile := flag.String("input", "", "input csv file path with pickup,dropoff lines and no header")
	outfile := flag.String("output", "checks.csv", "output csv file path")
	concurrency := flag.Int("c", 5, "concurrent workers")
	overcharges := flag.String("overcharges", "outputs/results/overcharging_cases.csv", "overcharge cases csv")
	anomalies := flag.String("anomalies", "outputs/results/route_anomalies.csv", "route anomalies csv")
	zones := flag.String("zones", "data/taxi_zone_lookup.csv", "taxi zone lookup csv")
	dsn := flag.String("dsn", "", "postgres dsn, datasets are read from its tables instead of the csv files")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	logger.Init(os.Stderr, *logLevel, "text")

	ctx, stop := context.WithCancel(context.Background())

	engine, err := openEngine(ctx, *dsn, &farewatch.Config{
		OverchargePath: *overcharges,
		AnomalyPath:    *anomalies,
		ZonePath:       *zones,
	})
	if err != nil {
		log.Fatalf("open engine: %s\n", err)
	}

	in, err := os.Open(*infile)
	if err != nil {
		log.Fatalf("open input file: %s\n", err)
	}

	out, err := os.Create(*outfile)
	if err != nil {
		log.Fatalf("open output file: %s\n", err)
	}

	defer func() {
		if err := in.Close(); err != nil {
			log.Fatalf("close input file: %s\n", err)
		}
		if err := out.Close(); err != nil {
			log.Fatalf("close output file: %s\n", err)
		}
	}()

	checker, err := farewatch.NewBatchChecker(engine, in, out, &farewatch.BatchConfig{
		Concurrency: *concurrency,
	})
	if err != nil {
		log.Fatalf("NewBatchChecker: %s\n", err)
	}

	exit := make(chan struct{})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint
		stop()
	}()

	go func() {
		if err := checker.Run(ctx); err != nil {
			log.Fatalf("batch checker: %s\n", err)
		}
		exit <- struct{}{}
	}()

	<-exit
	fmt.Printf("output is written to %s\n", *outfile)
	fmt.Println("exit.")
}

// openEngine builds the engine from postgres when dsn is given and from the csv files otherwise
func openEngine(ctx context.Context, dsn string, conf *farewatch.Config) (*farewatch.Engine, error) {
	if dsn == "" {
		return farewatch.Open(ctx, conf)
	}

	db, err := sqlsource.Open(ctx, "postgres", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ds, err := sqlsource.LoadDatasets(ctx, db, sqlsource.DefaultTables)
	if err != nil {
		return nil, err
	}
	return farewatch.NewEngine(ds)
}
