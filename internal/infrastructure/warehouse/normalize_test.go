package warehouse

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float64", 12.5, 12.5},
		{"int64", int64(40), 40},
		{"numeric rat", big.NewRat(1, 4), 0.25},
		{"numeric string", "99.9", 99.9},
		{"garbage string", "n/a", 0},
		{"unsupported", struct{}{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Float(tt.in), 1e-9)
		})
	}
}

func TestInt(t *testing.T) {
	assert.Equal(t, int64(7), Int(int64(7)))
	assert.Equal(t, int64(3), Int(3.9))
	assert.Equal(t, int64(2), Int(big.NewRat(5, 2)))
	assert.Equal(t, int64(0), Int("7"))
}

func TestString(t *testing.T) {
	assert.Equal(t, "sku-1", String("sku-1"))
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "", String(int64(3)))
}
