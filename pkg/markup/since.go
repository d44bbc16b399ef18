package markup

import (
	"math"
	"strconv"
	"time"
)

// Since describes how long ago ts (unix seconds) was, relative to now.
// Anything older than a week is shown as a calendar date.
func Since(ts float64, now time.Time) string {
	sec, frac := math.Modf(ts)
	created := time.Unix(int64(sec), int64(frac*float64(time.Second)))
	delta := int64(now.Sub(created) / time.Second)

	switch {
	case delta < 60:
		return "1 minute ago"
	case delta < 3600:
		return plural(delta/60, "minute")
	case delta < 86400:
		return plural(delta/3600, "hour")
	case delta < 604800:
		return plural(delta/86400, "day")
	default:
		return created.In(now.Location()).Format("Jan 2, 2006")
	}
}

func plural(n int64, unit string) string {
	s := strconv.FormatInt(n, 10) + " " + unit
	if n != 1 {
		s += "s"
	}
	return s + " ago"
}
