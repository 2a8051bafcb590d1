// Package scheduling implements the slot-and-booking engine: grid
// generation from the weekly template, conflict-free reservation and
// the booking status lifecycle.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// GridTimes returns the bookable "HH:MM" start times for one open day
// under the given schedule. Starting at open time it steps forward by
// the slot duration, emitting a time per step while the step is still
// before closing, and skips times inside the break window. The break
// is half-open: a time equal to break start is excluded, a time equal
// to break end is a valid slot.
func GridTimes(sched models.DefaultSchedule) ([]string, error) {
	if err := sched.Validate(); err != nil {
		return nil, err
	}

	openHour, openMin, err := splitClock(sched.OpenTime)
	if err != nil {
		return nil, err
	}
	closeHour, closeMin, err := splitClock(sched.CloseTime)
	if err != nil {
		return nil, err
	}

	var times []string
	curHour, curMin := openHour, openMin

	for curHour < closeHour || (curHour == closeHour && curMin < closeMin) {
		t := fmt.Sprintf("%02d:%02d", curHour, curMin)

		inBreak := sched.HasBreak() && t >= sched.BreakStart && t < sched.BreakEnd
		if !inBreak {
			times = append(times, t)
		}

		// Roll minute overflow into hours.
		curMin += sched.SlotDuration
		if curMin >= 60 {
			curHour += curMin / 60
			curMin = curMin % 60
		}
	}

	return times, nil
}

// datesInRange walks each calendar date from start to end inclusive.
func datesInRange(startDate, endDate string) ([]time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", endDate)
	}
	if start.After(end) {
		return nil, fmt.Errorf("start date %s is after end date %s", startDate, endDate)
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

func splitClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %s", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	return hour, minute, nil
}
