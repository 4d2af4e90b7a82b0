package vndate

import (
	"strconv"
	"strings"
	"time"
)

// keywordResolvers maps literal date keywords to their resolution rule.
// Kept as a table rather than a conditional chain so the rule set stays
// auditable per entry.
var keywordResolvers = map[string]func(now time.Time) time.Time{
	"hôm nay":       func(now time.Time) time.Time { return now },
	"ngày hôm nay":  func(now time.Time) time.Time { return now },
	"hôm qua":       func(now time.Time) time.Time { return now.AddDate(0, 0, -1) },
	"ngày hôm qua":  func(now time.Time) time.Time { return now.AddDate(0, 0, -1) },
	"hôm kia":       func(now time.Time) time.Time { return now.AddDate(0, 0, -2) },
	"ngày hôm kia":  func(now time.Time) time.Time { return now.AddDate(0, 0, -2) },
	"tuần trước":    func(now time.Time) time.Time { return now.AddDate(0, 0, -7) },
	"tháng trước":   previousMonthSameDay,
}

// weekdayNames maps Vietnamese weekday names to Go weekdays.
var weekdayNames = map[string]time.Weekday{
	"thứ hai":  time.Monday,
	"thứ 2":    time.Monday,
	"thứ ba":   time.Tuesday,
	"thứ 3":    time.Tuesday,
	"thứ tư":   time.Wednesday,
	"thứ 4":    time.Wednesday,
	"thứ năm":  time.Thursday,
	"thứ 5":    time.Thursday,
	"thứ sáu":  time.Friday,
	"thứ 6":    time.Friday,
	"thứ bảy":  time.Saturday,
	"thứ 7":    time.Saturday,
	"chủ nhật": time.Sunday,
}

// ResolveDate resolves a user-supplied date expression against now. The
// second return value reports whether the expression was recognized; an
// unrecognized expression resolves to now so callers can proceed with a
// warning instead of failing the transaction.
func ResolveDate(expr string, now time.Time) (time.Time, bool) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return now, true
	}

	// D/M form, year inferred: a date that would land in the future is
	// reinterpreted as the previous year (statements near year
	// boundaries refer to the past).
	if strings.Contains(expr, "/") {
		if t, ok := parseDayMonth(expr, now); ok {
			return t, true
		}
		return now, false
	}

	if resolve, ok := keywordResolvers[expr]; ok {
		return resolve(now), true
	}

	// Weekday names resolve to the most recent occurrence strictly
	// before now; if today is that weekday, go back a full week.
	if weekday, ok := weekdayNames[expr]; ok {
		daysBack := (int(now.Weekday()) - int(weekday) + 7) % 7
		if daysBack == 0 {
			daysBack = 7
		}
		return now.AddDate(0, 0, -daysBack), true
	}

	return now, false
}

func parseDayMonth(expr string, now time.Time) (time.Time, bool) {
	parts := strings.Split(expr, "/")
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

	target := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	if target.After(now) {
		target = time.Date(now.Year()-1, time.Month(month), day, 0, 0, 0, 0, now.Location())
	}
	return target, true
}

// previousMonthSameDay returns the same day-of-month one calendar month
// back, clamped to that month's last valid day.
func previousMonthSameDay(now time.Time) time.Time {
	year, month := now.Year(), now.Month()-1
	if now.Month() == time.January {
		year, month = year-1, time.December
	}

	day := now.Day()
	if max := daysIn(year, month); day > max {
		day = max
	}
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay truncates t to midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns t at 23:59:59.999999.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999000, t.Location())
}
