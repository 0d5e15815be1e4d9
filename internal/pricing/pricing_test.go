package pricing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paperpatch/poster-store/internal/model"
	"github.com/paperpatch/poster-store/internal/pricing"
)

func TestPrice_StandardSizesMatchTable(t *testing.T) {
	sizes := model.DefaultSizes()
	eng := pricing.NewEngine(sizes)

	for _, s := range sizes {
		got, err := eng.Price(s.Width, s.Height, false)
		require.NoError(t, err)
		require.Equal(t, s.PriceNoBoard, got, "no-board price for %s", s.Label)

		if s.PriceWithBoard != nil {
			got, err = eng.Price(s.Width, s.Height, true)
			require.NoError(t, err)
			require.Equal(t, *s.PriceWithBoard, got, "board price for %s", s.Label)
		}
	}
}

func TestPrice_BoardUnavailableIsNotDowngraded(t *testing.T) {
	eng := pricing.NewEngine(model.DefaultSizes())

	// 35x24 has no board price configured
	_, err := eng.Price(35, 24, true)
	require.Error(t, err)
	var verr *pricing.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "with_board", verr.Field)
}

func TestPrice_CustomSizeMultipleOf50(t *testing.T) {
	eng := pricing.NewEngine(model.DefaultSizes())

	for h := 12; h <= 60; h += 3 {
		for w := 1; w <= 60; w += 3 {
			if eng.IsStandard(w, h) {
				continue
			}
			for _, board := range []bool{false, true} {
				p, err := eng.Price(w, h, board)
				require.NoError(t, err)
				require.Zero(t, p%50, "price %d for %dx%d board=%v not a multiple of 50", p, w, h, board)
				require.Positive(t, p)
			}
		}
	}
}

func TestPrice_CustomSizeMonotonicInArea(t *testing.T) {
	// With no standard table the formula applies everywhere; price must be
	// non-decreasing as area grows at a fixed board flag.
	eng := pricing.NewEngine(nil)

	for _, board := range []bool{false, true} {
		prevArea, prevPrice := 0, 0
		for h := 12; h <= 60; h++ {
			for w := 1; w <= 60; w++ {
				area := w * h
				if area <= prevArea {
					continue
				}
				p, err := eng.Price(w, h, board)
				require.NoError(t, err)
				require.GreaterOrEqual(t, p, prevPrice,
					"price decreased from %d to %d as area grew %d -> %d", prevPrice, p, prevArea, area)
				prevArea, prevPrice = area, p
			}
		}
	}
}

func TestPrice_CustomBoardPremium(t *testing.T) {
	eng := pricing.NewEngine(model.DefaultSizes())

	// 20x20: 400 sq in. No board: 400*2.8 = 1120 -> 1150. Board: 400*3.5+200 = 1600.
	p, err := eng.Price(20, 20, false)
	require.NoError(t, err)
	require.Equal(t, 1150, p)

	p, err = eng.Price(20, 20, true)
	require.NoError(t, err)
	require.Equal(t, 1600, p)
}

func TestValidateCustomSize(t *testing.T) {
	err := pricing.ValidateCustomSize(11, 10)
	require.Error(t, err)
	var verr *pricing.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "height", verr.Field)

	err = pricing.ValidateCustomSize(12, 0)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "width", verr.Field)

	require.NoError(t, pricing.ValidateCustomSize(12, 10))

	err = pricing.ValidateCustomSize(61, 10)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "height", verr.Field)

	err = pricing.ValidateCustomSize(40, 61)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "width", verr.Field)
}

func TestOrderNumber_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := pricing.OrderNumber()
		require.True(t, strings.HasPrefix(n, "PP-"), "order number %q missing prefix", n)
		parts := strings.Split(n, "-")
		require.Len(t, parts, 3)
		require.Len(t, parts[2], 4)
		seen[n] = true
	}
	// collisions in 100 draws would indicate a broken random suffix
	require.Greater(t, len(seen), 90)
}
