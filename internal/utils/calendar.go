package utils

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"
)

// DayLayout is the storage format of calendar days.
const DayLayout = "2006-01-02"

// Day is a calendar day in the application's regional timezone, stored as YYYY-MM-DD.
type Day string

func ParseDay(value string) (Day, error) {
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", value, err)
	}
	return Day(t.Format(DayLayout)), nil
}

func (d Day) String() string {
	return string(d)
}

// Time returns midnight UTC of the day. Only meaningful for day arithmetic.
func (d Day) Time() time.Time {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) AddDays(n int) Day {
	return Day(d.Time().AddDate(0, 0, n).Format(DayLayout))
}

func (d Day) Before(other Day) bool {
	return d < other
}

func (d Day) After(other Day) bool {
	return d > other
}

// DaysUntil returns the number of whole days from d to other.
func (d Day) DaysUntil(other Day) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a settable clock for tests and replays.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Calendar computes day boundaries in a fixed regional timezone, never UTC or server-local.
type Calendar struct {
	clock    Clock
	location *time.Location
}

func NewCalendar(clock Clock, location *time.Location) *Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	if location == nil {
		location = time.UTC
	}
	return &Calendar{clock: clock, location: location}
}

func (c *Calendar) Now() time.Time {
	return c.clock.Now().In(c.location)
}

func (c *Calendar) Today() Day {
	return c.DayOf(c.clock.Now())
}

func (c *Calendar) Yesterday() Day {
	return c.Today().AddDays(-1)
}

func (c *Calendar) DayOf(t time.Time) Day {
	return Day(t.In(c.location).Format(DayLayout))
}

func (c *Calendar) Location() *time.Location {
	return c.location
}
