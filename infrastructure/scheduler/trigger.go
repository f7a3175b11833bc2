package scheduler

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownJob = errors.New("unknown job")

type trigger interface {
	// next returns the first fire time strictly after now, or false when exhausted.
	next(now time.Time) (time.Time, bool)
	String() string
}

type once struct {
	at    time.Time
	fired bool
}

func (o *once) next(time.Time) (time.Time, bool) {
	if o.fired {
		return time.Time{}, false
	}
	o.fired = true
	return o.at, true
}

func (o *once) String() string { return "once" }

type hourly struct {
	minute int
	loc    *time.Location
}

func (h hourly) next(now time.Time) (time.Time, bool) {
	t := now.In(h.loc)
	at := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), h.minute, 0, 0, h.loc)
	if !at.After(t) {
		at = at.Add(time.Hour)
	}
	return at, true
}

func (h hourly) String() string { return fmt.Sprintf("hourly at :%02d", h.minute) }

type daily struct {
	hour   int
	minute int
	loc    *time.Location
}

func (d daily) next(now time.Time) (time.Time, bool) {
	t := now.In(d.loc)
	at := time.Date(t.Year(), t.Month(), t.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !at.After(t) {
		at = time.Date(t.Year(), t.Month(), t.Day()+1, d.hour, d.minute, 0, 0, d.loc)
	}
	return at, true
}

func (d daily) String() string {
	return fmt.Sprintf("daily at %02d:%02d %s", d.hour, d.minute, d.loc)
}
