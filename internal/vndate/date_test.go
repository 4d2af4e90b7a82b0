package vndate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Wednesday, 15 October 2025, 14:30 local.
var testNow = time.Date(2025, time.October, 15, 14, 30, 0, 0, time.Local)

func TestResolveDateKeywords(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{name: "empty means now", expr: "", want: testNow},
		{name: "today", expr: "hôm nay", want: testNow},
		{name: "yesterday", expr: "hôm qua", want: testNow.AddDate(0, 0, -1)},
		{name: "yesterday long form", expr: "ngày hôm qua", want: testNow.AddDate(0, 0, -1)},
		{name: "day before yesterday", expr: "hôm kia", want: testNow.AddDate(0, 0, -2)},
		{name: "last week", expr: "tuần trước", want: testNow.AddDate(0, 0, -7)},
		{name: "last month same day", expr: "tháng trước", want: time.Date(2025, time.September, 15, 0, 0, 0, 0, time.Local)},
		{name: "case insensitive", expr: "Hôm Qua", want: testNow.AddDate(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.expr, testNow)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDateDayMonth(t *testing.T) {
	t.Run("past date stays in current year", func(t *testing.T) {
		got, ok := ResolveDate("5/9", testNow)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2025, time.September, 5, 0, 0, 0, 0, time.Local), got)
	})

	t.Run("future date rolls to previous year", func(t *testing.T) {
		got, ok := ResolveDate("25/12", testNow)
		assert.True(t, ok)
		assert.Equal(t, time.Date(2024, time.December, 25, 0, 0, 0, 0, time.Local), got)
	})

	t.Run("invalid month", func(t *testing.T) {
		got, ok := ResolveDate("5/13", testNow)
		assert.False(t, ok)
		assert.Equal(t, testNow, got)
	})

	t.Run("invalid day", func(t *testing.T) {
		_, ok := ResolveDate("32/1", testNow)
		assert.False(t, ok)
	})
}

func TestResolveDateWeekday(t *testing.T) {
	// testNow is a Wednesday.
	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{name: "monday is two days back", expr: "thứ hai", want: testNow.AddDate(0, 0, -2)},
		{name: "numeric monday", expr: "thứ 2", want: testNow.AddDate(0, 0, -2)},
		{name: "same weekday goes back a full week", expr: "thứ 4", want: testNow.AddDate(0, 0, -7)},
		{name: "sunday", expr: "chủ nhật", want: testNow.AddDate(0, 0, -3)},
		{name: "saturday", expr: "thứ bảy", want: testNow.AddDate(0, 0, -4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveDate(tt.expr, testNow)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDateUnrecognized(t *testing.T) {
	got, ok := ResolveDate("ngày nào đó", testNow)
	assert.False(t, ok)
	assert.Equal(t, testNow, got)
}

func TestResolveDateDeterministic(t *testing.T) {
	first, _ := ResolveDate("thứ hai", testNow)
	second, _ := ResolveDate("thứ hai", testNow)
	assert.Equal(t, first, second)
}

func TestPreviousMonthClamped(t *testing.T) {
	// 31 March has no 31 February counterpart.
	march31 := time.Date(2025, time.March, 31, 10, 0, 0, 0, time.Local)
	got, ok := ResolveDate("tháng trước", march31)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.Local), got)
}

func TestDayBounds(t *testing.T) {
	start := StartOfDay(testNow)
	end := EndOfDay(testNow)
	assert.Equal(t, time.Date(2025, time.October, 15, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, time.October, 15, 23, 59, 59, 999999000, time.Local), end)
}
