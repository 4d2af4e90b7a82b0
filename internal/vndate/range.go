package vndate

import (
	"strconv"
	"strings"
	"time"

	"github.com/vuongtx/thuchi-bot/internal/model"
)

// ResolveRange resolves a statistics period plus optional specific value
// into a concrete [start, end] interval. End is inclusive through
// 23:59:59.999999 of its day. The function is total: any parse failure at
// any branch falls back to the current calendar month, never an error.
func ResolveRange(period, specific string, now time.Time) (time.Time, time.Time) {
	specific = strings.ToLower(strings.TrimSpace(specific))

	switch {
	case period == model.PeriodCustom && strings.Contains(specific, "-"):
		if start, end, ok := parseCustomRange(specific, now); ok {
			return start, end
		}

	case specific == model.ValuePrevMonth:
		year, month := now.Year(), now.Month()-1
		if now.Month() == time.January {
			year, month = year-1, time.December
		}
		return monthRange(year, month, now.Location())

	case specific == model.ValuePrevWeek:
		start := StartOfDay(mondayOf(now).AddDate(0, 0, -7))
		return start, EndOfDay(start.AddDate(0, 0, 6))

	case period == model.PeriodDay && specific != "":
		if target, ok := ResolveDate(specific, now); ok {
			return StartOfDay(target), EndOfDay(target)
		}

	case specific != "":
		// Bare number means a month of the current year.
		if month, err := strconv.Atoi(specific); err == nil && month >= 1 && month <= 12 {
			return monthRange(now.Year(), time.Month(month), now.Location())
		}
	}

	return defaultRange(period, now)
}

// defaultRange returns the current interval for a bare period.
func defaultRange(period string, now time.Time) (time.Time, time.Time) {
	switch period {
	case model.PeriodDay:
		return StartOfDay(now), EndOfDay(now)
	case model.PeriodWeek:
		start := StartOfDay(mondayOf(now))
		return start, EndOfDay(start.AddDate(0, 0, 6))
	case model.PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return start, EndOfDay(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location()))
	default:
		return monthRange(now.Year(), now.Month(), now.Location())
	}
}

func monthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, EndOfDay(time.Date(year, month, daysIn(year, month), 0, 0, 0, 0, loc))
}

// mondayOf returns the Monday of the week containing t.
func mondayOf(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	return t.AddDate(0, 0, -daysSinceMonday)
}

// parseCustomRange parses "DD/MM-DD/MM" in the current year.
func parseCustomRange(specific string, now time.Time) (time.Time, time.Time, bool) {
	parts := strings.SplitN(specific, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}

	start, ok := parseDayMonthExact(parts[0], now)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := parseDayMonthExact(parts[1], now)
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	return StartOfDay(start), EndOfDay(end), true
}

// parseDayMonthExact parses "DD/MM" in the current year without the
// past-year reinterpretation applied to transaction dates.
func parseDayMonthExact(expr string, now time.Time) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(expr), "/")
	if len(parts) != 2 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > daysIn(now.Year(), time.Month(month)) {
		return time.Time{}, false
	}
	return time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location()), true
}
