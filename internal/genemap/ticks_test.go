package genemap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickInterval(t *testing.T) {
	tests := []struct {
		length       int64
		wantInterval int64
		wantCount    int64
	}{
		{12345, 1000, 12},
		{4000, 500, 8},
		{45000, 5000, 9},
		{100000, 10000, 10},
		{99, 10, 9},
		{3, 1, 3},
		{0, 1, 0},
	}
	for _, tt := range tests {
		interval, count := TickInterval(tt.length)
		assert.Equal(t, tt.wantInterval, interval, "TickInterval(%d) interval", tt.length)
		assert.Equal(t, tt.wantCount, count, "TickInterval(%d) count", tt.length)
	}
}

func TestTickInterval_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	isPow10 := func(n int64) bool {
		for n > 1 && n%10 == 0 {
			n /= 10
		}
		return n == 1
	}

	for i := 0; i < 2000; i++ {
		length := 5 + rng.Int63n(300_000_000)
		interval, count := TickInterval(length)

		assert.True(t, isPow10(interval) || (interval%5 == 0 && isPow10(interval/5)),
			"interval %d for length %d", interval, length)
		assert.LessOrEqual(t, count, int64(MaxTicks), "length %d", length)
		assert.Equal(t, length/interval, count)
		if !isPow10(interval) {
			// Widening only happens when the power of ten gave too many ticks.
			assert.Greater(t, length/(interval/5), int64(MaxTicks))
		}
	}
}

func TestFormatBigNumber(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-1000, "-1,000"},
		{-999, "-999"},
		{100000, "100,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBigNumber(tt.input), "FormatBigNumber(%d)", tt.input)
	}
}
