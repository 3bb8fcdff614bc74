package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// force the campus timezone because our servers don't always run
// there, which causes disturbances when manipulating dates based on
// <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}

// FromUnix converts a stored unix timestamp to campus local time.
func FromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).In(Location)
}
