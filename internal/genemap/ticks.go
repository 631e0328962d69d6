package genemap

import (
	"strconv"
)

// MaxTicks is the tick count above which the interval is widened 5x.
const MaxTicks = 20

// TickInterval picks the axis interval for a gene of the given length: the
// largest power of ten not exceeding length/5, widened 5x when that yields
// more than MaxTicks ticks. The interval never drops below one base.
func TickInterval(length int64) (interval, count int64) {
	if length <= 0 {
		return 1, 0
	}
	interval = 1
	for interval*50 <= length {
		interval *= 10
	}
	count = length / interval
	if count > MaxTicks {
		interval *= 5
		count = length / interval
	}
	return interval, count
}

// FormatBigNumber groups digits with commas: 1234567 -> "1,234,567".
func FormatBigNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	b := make([]byte, 0, len(s)+len(s)/3)
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b = append(b, s[:lead]...)
	for i := lead; i < len(s); i += 3 {
		b = append(b, ',')
		b = append(b, s[i:i+3]...)
	}
	return sign + string(b)
}
