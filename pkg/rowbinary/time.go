package rowbinary

import (
	"math"
	"time"
)

const secondsPerDay = 24 * 60 * 60

var pow10 = [...]int64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9}

// fromTicks converts a DateTime64 tick count at the given scale to a time.
func fromTicks(ticks int64, scale int) time.Time {
	p := pow10[scale]
	return time.Unix(ticks/p, (ticks%p)*pow10[9-scale]).UTC()
}

// toTicks converts t to a DateTime64 tick count at the given scale, truncating sub-tick precision.
// It reports false when the count does not fit in an int64.
func toTicks(t time.Time, scale int) (int64, bool) {
	p := pow10[scale]
	sec, frac := t.Unix(), int64(t.Nanosecond())/pow10[9-scale]
	if sec < 0 && frac > 0 {
		// Borrow a second so sec*p stays in range next to math.MinInt64.
		sec, frac = sec+1, frac-p
	}
	if sec > math.MaxInt64/p || sec < math.MinInt64/p {
		return 0, false
	}

	hi := sec * p
	ticks := hi + frac
	if (frac > 0 && ticks < hi) || (frac < 0 && ticks > hi) {
		return 0, false
	}

	return ticks, true
}

// days returns the number of whole days between the epoch and t, rounding towards negative infinity.
func days(t time.Time) int64 {
	s := t.Unix()
	d := s / secondsPerDay
	if s%secondsPerDay < 0 {
		d--
	}
	return d
}
