package chest

import "time"

const secondsPerDay = 24 * 60 * 60

// SecondsUntilNextUTCMidnight is wall-clock derived and must be recomputed
// for every render.
func SecondsUntilNextUTCMidnight(now time.Time) int {
	now = now.UTC()
	elapsed := now.Hour()*60*60 + now.Minute()*60 + now.Second()
	return secondsPerDay - elapsed
}

// OpenedToday reports whether openedAt (seconds since epoch) falls on the
// same UTC calendar day as now. Zero means the chest was never opened.
func OpenedToday(openedAt int64, now time.Time) bool {
	if openedAt <= 0 {
		return false
	}
	opened := time.Unix(openedAt, 0).UTC()
	now = now.UTC()
	oy, om, od := opened.Date()
	ny, nm, nd := now.Date()
	return oy == ny && om == nm && od == nd
}
