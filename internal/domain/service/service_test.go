package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

func TestStandard(t *testing.T) {
	tests := []struct {
		kind     Kind
		price    int64
		describe string
	}{
		{kind: KindRoomService, price: 15, describe: "Meal: Dinner"},
		{kind: KindLaundry, price: 10, describe: "Items: 5"},
		{kind: KindSpa, price: 50, describe: "Package: Basic"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, err := Standard(tt.kind)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.price).Equal(s.Price))
			assert.Equal(t, tt.describe, s.Describe())
		})
	}

	_, err := Standard(Kind("massage"))
	require.ErrorIs(t, err, input.ErrInvalid)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("SPA")
	require.NoError(t, err)
	assert.Equal(t, KindSpa, k)

	_, err = ParseKind("minibar")
	require.ErrorIs(t, err, input.ErrInvalid)
}
