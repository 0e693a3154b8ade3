package domain

import "time"

// NextStamp returns now as nanoseconds since the Unix epoch, bumped to
// prev+1 when the clock has not moved past prev
func NextStamp(prev *uint64, now time.Time) *uint64 {
	ns := uint64(now.UnixNano())
	if prev != nil && ns <= *prev {
		ns = *prev + 1
	}
	return &ns
}

// StampTime converts a nanosecond stamp back to a time
func StampTime(stamp *uint64) *time.Time {
	if stamp == nil {
		return nil
	}
	t := time.Unix(0, int64(*stamp)).UTC()
	return &t
}
