package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFee(t *testing.T) {
	cases := []struct {
		name     string
		subtotal int64
		fee      int64
	}{
		{"zero", 0, 0},
		{"exact cent", 1000, 50},
		{"half rounds up", 990, 50},     // 49.5 -> 50
		{"above half rounds up", 995, 50}, // 49.75 -> 50
		{"below half rounds down", 980, 49}, // 49.0
		{"one cent", 1, 0},    // 0.05 -> 0
		{"ten cents", 10, 1},  // 0.5 -> 1
		{"nine cents", 9, 0},  // 0.45 -> 0
		{"large order", 1234567, 61728}, // 61728.35 -> 61728
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.fee, PlatformFee(tc.subtotal))
		})
	}
}

func TestSubtotal(t *testing.T) {
	lines := []Line{
		{PhotoID: 1, UnitCents: 990, Quantity: 1},
		{PhotoID: 2, UnitCents: 1500, Quantity: 3},
	}
	assert.Equal(t, int64(990+4500), Subtotal(lines))
	assert.Equal(t, int64(0), Subtotal(nil))
}

func TestTotal(t *testing.T) {
	// 990 subtotal: fee 50, total 1040.
	assert.Equal(t, int64(1040), Total(990))
	// Fee is always recomputed from the subtotal, never accumulated
	// per line: two 495-cent photos equal one 990-cent subtotal.
	lines := []Line{
		{PhotoID: 1, UnitCents: 495, Quantity: 1},
		{PhotoID: 2, UnitCents: 495, Quantity: 1},
	}
	assert.Equal(t, int64(1040), Total(Subtotal(lines)))
}
