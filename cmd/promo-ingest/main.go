// Command promo-ingest merges gzip partner feeds of promo codes into a seed
// fragment for the API server. A code is kept when at least -min-feeds feeds
// list it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/hotel-booking/internal/seed"
)

func main() {
	var (
		out      string
		cfg      Config
		discount string
	)
	flag.StringVar(&out, "out", "-", "output seed fragment path, - for stdout")
	flag.IntVar(&cfg.MinFeeds, "min-feeds", 2, "number of feeds that must list a code")
	flag.UintVar(&cfg.Capacity, "capacity", 1_000_000, "expected codes per feed, sizes the bloom filters")
	flag.StringVar(&discount, "default-discount", "0.1", "discount for codes listed without one")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] feed1.gz feed2.gz ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	lg, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.DefaultDiscount, err = decimal.NewFromString(discount); err != nil {
		lg.Fatal("Invalid default discount", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, cfg, flag.Args(), out); err != nil {
		lg.Fatal("Promo ingest failed", zap.Error(err))
	}
	lg.Info("Promo ingest completed")
}

func run(ctx context.Context, lg *zap.Logger, cfg Config, feeds []string, out string) error {
	for _, f := range feeds {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check feed %s", f)
		}
	}

	codes, err := Ingest(ctx, lg, cfg, feeds)
	if err != nil {
		return err
	}
	lg.Info("Valid codes found", zap.Int("count", len(codes)))

	data := seed.Data{PromoCodes: codes}
	if out == "-" {
		return data.Encode(os.Stdout)
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := data.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}
	return nil
}
