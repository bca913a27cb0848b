package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$9.99", Money(decimal.RequireFromString("9.99")))
	assert.Equal(t, "$10.00", Money(decimal.NewFromInt(10)))
	assert.Equal(t, "$0.10", Money(decimal.RequireFromString("0.1")))
}

func TestFlashClass(t *testing.T) {
	assert.Equal(t, "flash-success", Flash{Kind: FlashSuccess}.Class())
	assert.Equal(t, "flash-info", Flash{}.Class())
}
