package main

import (
	"bufio"
	"context"
	"math/bits"
	"os"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/hotel-booking/internal/domain/offer"
	"github.com/xenking/hotel-booking/internal/seed"
)

const (
	bloomFPR      = 0.001
	maxFeeds      = bits.UintSize
	maxCodeLen    = 32
	progressEvery = 1_000_000
)

// Config controls how feeds are merged.
type Config struct {
	// MinFeeds is how many distinct feeds must list a code.
	MinFeeds int
	// Capacity is the expected number of codes per feed.
	Capacity uint
	// DefaultDiscount applies to lines without a discount column.
	DefaultDiscount decimal.Decimal
}

// entry is one parsed feed line.
type entry struct {
	code     string
	discount decimal.Decimal
}

// candidate is a code seen in pass 2 together with the feeds that hold it.
type candidate struct {
	mask     uint
	discount decimal.Decimal
}

// Ingest runs two passes over feeds. The first builds one bloom filter per
// feed. The second re-streams every feed and marks a code for that feed when
// another feed's filter contains it. Bits are only set by feeds that really
// list the code, so bloom false positives never add a code on their own.
// When feeds disagree the smallest discount wins.
func Ingest(ctx context.Context, lg *zap.Logger, cfg Config, feeds []string) ([]seed.PromoCode, error) {
	switch {
	case len(feeds) < 2:
		return nil, errors.New("at least two feeds are required")
	case len(feeds) > maxFeeds:
		return nil, errors.Errorf("at most %d feeds are supported", maxFeeds)
	case cfg.MinFeeds < 2 || cfg.MinFeeds > len(feeds):
		return nil, errors.Errorf("min feeds must be between 2 and %d", len(feeds))
	}
	if err := offer.ValidateRate(cfg.DefaultDiscount); err != nil {
		return nil, errors.Wrap(err, "default discount")
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = 1
	}

	lg.Info("Pass 1: building bloom filters", zap.Int("feeds", len(feeds)))
	filters, err := buildFilters(ctx, lg, cfg, feeds)
	if err != nil {
		return nil, errors.Wrap(err, "build bloom filters")
	}

	lg.Info("Pass 2: finding shared codes")
	results, err := findCandidates(ctx, lg, cfg, feeds, filters)
	if err != nil {
		return nil, errors.Wrap(err, "find candidates")
	}

	merged := make(map[string]candidate)
	for _, r := range results {
		for code, c := range r {
			m, ok := merged[code]
			if !ok || c.discount.LessThan(m.discount) {
				m.discount = c.discount
			}
			m.mask |= c.mask
			merged[code] = m
		}
	}

	var out []seed.PromoCode
	for code, c := range merged {
		if bits.OnesCount(c.mask) >= cfg.MinFeeds {
			out = append(out, seed.PromoCode{Code: code, Discount: c.discount})
		}
	}
	slices.SortFunc(out, func(a, b seed.PromoCode) int { return strings.Compare(a.Code, b.Code) })
	return out, nil
}

func buildFilters(ctx context.Context, lg *zap.Logger, cfg Config, feeds []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(feeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range feeds {
		g.Go(func() error {
			filter := bloom.NewWithEstimates(cfg.Capacity, bloomFPR)
			var count uint64
			err := streamFeed(ctx, path, cfg.DefaultDiscount, func(e entry) {
				filter.AddString(e.code)
				count++
				if count%progressEvery == 0 {
					lg.Info("Pass 1 progress", zap.Int("feed", i+1), zap.Uint64("codes", count))
				}
			})
			if err != nil {
				return errors.Wrapf(err, "feed %d", i+1)
			}
			lg.Info("Pass 1 complete", zap.Int("feed", i+1), zap.Uint64("codes", count))
			filters[i] = filter
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return filters, nil
}

func findCandidates(
	ctx context.Context,
	lg *zap.Logger,
	cfg Config,
	feeds []string,
	filters []*bloom.BloomFilter,
) ([]map[string]candidate, error) {
	results := make([]map[string]candidate, len(feeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range feeds {
		g.Go(func() error {
			found := make(map[string]candidate)
			bit := uint(1) << uint(i)
			err := streamFeed(ctx, path, cfg.DefaultDiscount, func(e entry) {
				for j, f := range filters {
					if j == i || !f.TestString(e.code) {
						continue
					}
					c, ok := found[e.code]
					if !ok || e.discount.LessThan(c.discount) {
						c.discount = e.discount
					}
					c.mask |= bit
					found[e.code] = c
					return
				}
			})
			if err != nil {
				return errors.Wrapf(err, "feed %d", i+1)
			}
			lg.Info("Pass 2 complete", zap.Int("feed", i+1), zap.Int("candidates", len(found)))
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// streamFeed calls fn for every well-formed line of a gzip feed. Blank lines,
// comments and lines with an unusable code or discount are skipped.
func streamFeed(ctx context.Context, path string, def decimal.Decimal, fn func(e entry)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e, ok := parseLine(scanner.Text(), def); ok {
			fn(e)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}

// parseLine parses "CODE" or "CODE,discount". Codes are case-sensitive.
func parseLine(line string, def decimal.Decimal) (entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return entry{}, false
	}
	code, rest, hasDiscount := strings.Cut(line, ",")
	code = strings.TrimSpace(code)
	if code == "" || len(code) > maxCodeLen || strings.ContainsAny(code, " \t") {
		return entry{}, false
	}
	e := entry{code: code, discount: def}
	if hasDiscount {
		d, err := decimal.NewFromString(strings.TrimSpace(rest))
		if err != nil || offer.ValidateRate(d) != nil {
			return entry{}, false
		}
		e.discount = d
	}
	return e, true
}
