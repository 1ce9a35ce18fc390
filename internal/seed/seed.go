// Package seed loads the startup data of the hotel: rooms, promo codes,
// seasonal offers and reviews.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/xenking/hotel-booking/internal/domain/hotel"
	"github.com/xenking/hotel-booking/internal/domain/room"
)

//go:embed default.yaml
var defaultData []byte

// Data is the document format of a seed file. Every section is optional.
type Data struct {
	Rooms          []Room          `yaml:"rooms,omitempty"`
	PromoCodes     []PromoCode     `yaml:"promo_codes,omitempty"`
	SeasonalOffers []SeasonalOffer `yaml:"seasonal_offers,omitempty"`
	Reviews        []Review        `yaml:"reviews,omitempty"`
}

type Room struct {
	Number    int             `yaml:"number"`
	Type      string          `yaml:"type"`
	Price     decimal.Decimal `yaml:"price"`
	Available *bool           `yaml:"available,omitempty"`
}

type PromoCode struct {
	Code     string          `yaml:"code"`
	Discount decimal.Decimal `yaml:"discount"`
}

// SeasonalOffer bounds are offsets from the time the seed is applied.
type SeasonalOffer struct {
	Discount decimal.Decimal `yaml:"discount"`
	Start    time.Duration   `yaml:"start"`
	End      time.Duration   `yaml:"end"`
}

type Review struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Rating  int    `yaml:"rating"`
	Comment string `yaml:"comment"`
}

// Default returns the embedded seed.
func Default() (*Data, error) {
	return Parse(bytes.NewReader(defaultData))
}

// Load reads a seed file, or the embedded seed when path is empty.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed")
	}
	defer func() { _ = f.Close() }()

	d, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "seed %s", path)
	}
	return d, nil
}

// Parse decodes a seed document. Unknown fields are rejected.
func Parse(r io.Reader) (*Data, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Data
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode seed")
	}
	return &d, nil
}

// Apply adds every entry of d to h. Seasonal offsets are resolved against now.
func (d *Data) Apply(ctx context.Context, h *hotel.Hotel, now time.Time) error {
	for _, r := range d.Rooms {
		t, err := room.ParseType(r.Type)
		if err != nil {
			return errors.Wrapf(err, "room %d", r.Number)
		}
		available := r.Available == nil || *r.Available
		if _, err := h.AddRoom(ctx, r.Number, t, r.Price, available); err != nil {
			return errors.Wrapf(err, "room %d", r.Number)
		}
	}
	for _, p := range d.PromoCodes {
		if err := h.AddPromoCode(ctx, p.Code, p.Discount); err != nil {
			return errors.Wrapf(err, "promo code %q", p.Code)
		}
	}
	for i, s := range d.SeasonalOffers {
		if _, err := h.AddSeasonalOffer(ctx, s.Discount, now.Add(s.Start), now.Add(s.End)); err != nil {
			return errors.Wrapf(err, "seasonal offer #%d", i+1)
		}
	}
	for i, r := range d.Reviews {
		if _, err := h.AddReview(ctx, r.Name, r.Email, r.Rating, r.Comment); err != nil {
			return errors.Wrapf(err, "review #%d", i+1)
		}
	}
	return nil
}

// Encode writes d as YAML.
func (d *Data) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "encode seed")
	}
	return enc.Close()
}
