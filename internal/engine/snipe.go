package engine

import "time"

// MaybeExtend applies the anti-snipe rule: a bid landing inside the
// trailing window pushes the close out to bidTime + window. The
// extension is monotonic and never shortens endTime. maxExtensions
// caps repeated re-extension; zero means unbounded, which is the
// historical behavior but leaves the auction open to being kept alive
// indefinitely by minimum bids.
func MaybeExtend(endTime, bidTime time.Time, window time.Duration, extensions, maxExtensions int) (bool, time.Time) {
	if window <= 0 {
		return false, endTime
	}
	if maxExtensions > 0 && extensions >= maxExtensions {
		return false, endTime
	}
	if endTime.Sub(bidTime) >= window {
		return false, endTime
	}

	newEnd := bidTime.Add(window)
	if !newEnd.After(endTime) {
		return false, endTime
	}
	return true, newEnd
}
