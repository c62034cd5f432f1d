package service

import "time"

// Clock supplies "today" for schedule reads that name no date.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
