package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	amount := decimal.New(1000000, 0)

	t.Run("known code renders a symbol", func(t *testing.T) {
		formatted := Format(amount, "VND")
		assert.Contains(t, formatted, "₫")
	})

	t.Run("empty code uses the default", func(t *testing.T) {
		assert.Equal(t, Format(amount, DefaultCode), Format(amount, ""))
	})

	t.Run("unknown code falls back to the bare number", func(t *testing.T) {
		assert.Equal(t, "1000000", Format(amount, "NOPE"))
	})
}
