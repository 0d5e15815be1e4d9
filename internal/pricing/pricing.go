// Package pricing computes poster prices from the configured standard-size
// table, falling back to an area-based formula for custom dimensions. The
// engine has no side effects; the same inputs always yield the same price.
package pricing

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/paperpatch/poster-store/internal/model"
)

// Custom-size formula constants. Rates are taka per square inch.
const (
	rateNoBoard   = 2.8
	rateWithBoard = 3.5
	boardPremium  = 200
	roundStep     = 50
)

// Dimension limits for custom sizes, in inches.
const (
	MinHeight = 12
	MinWidth  = 1
	MaxDim    = 60
)

// ValidationError reports malformed user input. Field names the offending
// attribute so callers can surface the error inline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Engine prices posters against one immutable snapshot of the size table.
// Build a fresh Engine after the operator edits the table.
type Engine struct {
	sizes []model.StandardSize
}

// NewEngine returns an Engine over the given standard sizes.
func NewEngine(sizes []model.StandardSize) *Engine {
	return &Engine{sizes: sizes}
}

// Sizes returns the table snapshot the engine was built from.
func (e *Engine) Sizes() []model.StandardSize { return e.sizes }

// Price returns the price for the given dimensions and board option.
// An exact standard-size match uses the table value; requesting a board on a
// size that has no board price is an error, not a silent downgrade. Any other
// dimensions are priced by the custom-size formula. Price does not validate
// dimension limits; call ValidateCustomSize first for non-standard sizes.
func (e *Engine) Price(width, height int, withBoard bool) (int, error) {
	for _, s := range e.sizes {
		if s.Width != width || s.Height != height {
			continue
		}
		if withBoard {
			if s.PriceWithBoard == nil {
				return 0, &ValidationError{Field: "with_board", Message: fmt.Sprintf("board mounting unavailable for %s", s.Label)}
			}
			return *s.PriceWithBoard, nil
		}
		return s.PriceNoBoard, nil
	}

	area := float64(width * height)
	rate := rateNoBoard
	premium := 0.0
	if withBoard {
		rate = rateWithBoard
		premium = boardPremium
	}
	return roundUp(area*rate+premium, roundStep), nil
}

// IsStandard reports whether the dimensions exactly match a configured size.
func (e *Engine) IsStandard(width, height int) bool {
	for _, s := range e.sizes {
		if s.Width == width && s.Height == height {
			return true
		}
	}
	return false
}

// ValidateCustomSize checks custom dimensions against the allowed range.
// Height must be within [12,60] inches and width within [1,60]. The returned
// error is a *ValidationError naming the offending dimension.
func ValidateCustomSize(height, width int) error {
	if height < MinHeight {
		return &ValidationError{Field: "height", Message: fmt.Sprintf("height must be at least %d inches", MinHeight)}
	}
	if width < MinWidth {
		return &ValidationError{Field: "width", Message: fmt.Sprintf("width must be at least %d inch", MinWidth)}
	}
	if height > MaxDim {
		return &ValidationError{Field: "height", Message: fmt.Sprintf("maximum dimension is %d inches", MaxDim)}
	}
	if width > MaxDim {
		return &ValidationError{Field: "width", Message: fmt.Sprintf("maximum dimension is %d inches", MaxDim)}
	}
	return nil
}

// roundUp rounds v up to the nearest multiple of step.
func roundUp(v float64, step int) int {
	return int(math.Ceil(v/float64(step))) * step
}

// OrderNumber generates a human-readable order number of the form
// PP-<timestamp base36>-<4 random base36 chars>.
func OrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 4)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand failing is unrecoverable for ID generation
			panic(err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return fmt.Sprintf("PP-%s-%s", ts, string(b))
}
