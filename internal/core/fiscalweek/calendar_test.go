package fiscalweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekRange_FirstWeekStartsOnPreviousSaturday(t *testing.T) {
	t.Parallel()

	w := WeekRange(2025, time.August, 1)

	assert.Equal(t, Date(2025, time.July, 26), w.StartDate)
	assert.Equal(t, Date(2025, time.August, 1), w.EndDate)
	assert.Equal(t, 2025, w.Year)
	assert.Equal(t, time.August, w.Month)
	assert.Equal(t, 1, w.WeekInMonth)
}

func TestWeekRange_FirstOfMonthIsSaturday(t *testing.T) {
	t.Parallel()

	w := WeekRange(2025, time.March, 1)

	assert.Equal(t, Date(2025, time.March, 1), w.StartDate)
	assert.Equal(t, Date(2025, time.March, 7), w.EndDate)
}

func TestWeekRange_SaturdayStartAndSixDaySpan(t *testing.T) {
	t.Parallel()

	for year := 2023; year <= 2027; year++ {
		for month := time.January; month <= time.December; month++ {
			for week := 1; week <= MaxWeeksInMonth; week++ {
				w := WeekRange(year, month, week)
				require.Equal(t, time.Saturday, w.StartDate.Weekday(), "start of %s", w.Label())
				require.Equal(t, 6*24*time.Hour, w.EndDate.Sub(w.StartDate), "span of %s", w.Label())
			}
		}
	}
}

func TestWeekOf_CenterRuleAssignsWeekToTuesdayMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		date  time.Time
		year  int
		month time.Month
		week  int
		start time.Time
	}{
		{
			name:  "friday of a week whose bulk is in the previous month",
			date:  Date(2025, time.August, 1),
			year:  2025,
			month: time.July,
			week:  5,
			start: Date(2025, time.July, 26),
		},
		{
			name:  "saturday at the tail of march belongs to april",
			date:  Date(2025, time.March, 29),
			year:  2025,
			month: time.April,
			week:  1,
			start: Date(2025, time.March, 29),
		},
		{
			name:  "last days of the year",
			date:  Date(2025, time.December, 31),
			year:  2025,
			month: time.December,
			week:  5,
			start: Date(2025, time.December, 27),
		},
		{
			name:  "first full week of a year starting on thursday",
			date:  Date(2026, time.January, 3),
			year:  2026,
			month: time.January,
			week:  2,
			start: Date(2026, time.January, 3),
		},
		{
			name:  "time of day is ignored",
			date:  time.Date(2025, time.June, 21, 23, 59, 0, 0, time.UTC),
			year:  2025,
			month: time.June,
			week:  4,
			start: Date(2025, time.June, 21),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := WeekOf(tt.date)
			assert.Equal(t, tt.year, w.Year)
			assert.Equal(t, tt.month, w.Month)
			assert.Equal(t, tt.week, w.WeekInMonth)
			assert.Equal(t, tt.start, w.StartDate)
			assert.True(t, w.Contains(tt.date))
		})
	}
}

func TestWeekOf_RoundTripForValidWeeks(t *testing.T) {
	t.Parallel()

	for year := 2020; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			for _, week := range ValidWeeksInMonth(year, month) {
				start := WeekRange(year, month, week).StartDate
				got := WeekOf(start)
				require.Equal(t, year, got.Year, "year for %04d-%02d W%d", year, month, week)
				require.Equal(t, month, got.Month, "month for %04d-%02d W%d", year, month, week)
				require.Equal(t, week, got.WeekInMonth, "week for %04d-%02d W%d", year, month, week)
			}
		}
	}
}

func TestWeekOf_WeekInMonthAlwaysWithinBounds(t *testing.T) {
	t.Parallel()

	day := Date(2024, time.January, 1)
	end := Date(2028, time.December, 31)
	for ; !day.After(end); day = day.AddDate(0, 0, 1) {
		w := WeekOf(day)
		require.GreaterOrEqual(t, w.WeekInMonth, 1, "week of %s", day.Format(time.DateOnly))
		require.LessOrEqual(t, w.WeekInMonth, MaxWeeksInMonth, "week of %s", day.Format(time.DateOnly))
	}
}

func TestIsCrossMonthWeek(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCrossMonthWeek(2025, time.August, 1), "saturday start in july")
	assert.False(t, IsCrossMonthWeek(2025, time.August, 2))
	assert.False(t, IsCrossMonthWeek(2025, time.March, 1), "first of month is a saturday")
	assert.True(t, IsCrossMonthWeek(2025, time.March, 5), "tuesday falls in april")
	assert.True(t, IsCrossMonthWeek(2025, time.July, 1), "saturday start in june")
}

func TestValidWeeksInMonth_NonEmptyAndStrictlyIncreasing(t *testing.T) {
	t.Parallel()

	for year := 2000; year <= 2040; year++ {
		for month := time.January; month <= time.December; month++ {
			weeks := ValidWeeksInMonth(year, month)
			require.NotEmpty(t, weeks, "%04d-%02d", year, month)
			for i := 1; i < len(weeks); i++ {
				require.Less(t, weeks[i-1], weeks[i], "%04d-%02d", year, month)
			}
		}
	}
}

func TestValidWeeksInMonth_KnownMonths(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{2, 3, 4, 5}, ValidWeeksInMonth(2025, time.August))
	assert.Equal(t, []int{1, 2, 3, 4}, ValidWeeksInMonth(2025, time.March))
	assert.Equal(t, []int{2, 3, 4, 5}, ValidWeeksInMonth(2025, time.July))
}

func TestWeeksAssignedToMonth_MajorityVote(t *testing.T) {
	t.Parallel()

	july := WeeksAssignedToMonth(2025, time.July)
	require.Len(t, july, 5)
	assert.Equal(t, 1, july[0].WeekInMonth)
	assert.Equal(t, Date(2025, time.June, 28), july[0].StartDate)
	assert.Equal(t, 5, july[4].WeekInMonth)

	august := WeeksAssignedToMonth(2025, time.August)
	require.Len(t, august, 4)
	assert.Equal(t, 2, august[0].WeekInMonth)
	assert.Equal(t, Date(2025, time.August, 23), august[3].StartDate)
}

func TestWeeksAssignedToMonth_DiffersFromAnchorRule(t *testing.T) {
	t.Parallel()

	anchor, err := WeeksInMonth(2025, time.July, MonthRuleAnchor)
	require.NoError(t, err)
	majority, err := WeeksInMonth(2025, time.July, MonthRuleMajority)
	require.NoError(t, err)

	assert.Len(t, anchor, 4)
	assert.Len(t, majority, 5)
	assert.Equal(t, 2, anchor[0].WeekInMonth)
	assert.Equal(t, 1, majority[0].WeekInMonth)
}

func TestWeeksAssignedToMonth_CoversEveryDayExactlyOnce(t *testing.T) {
	t.Parallel()

	seen := make(map[time.Time]int)
	for month := time.January; month <= time.December; month++ {
		for _, w := range WeeksAssignedToMonth(2026, month) {
			got := WeekOf(w.StartDate)
			require.Equal(t, w.Month, got.Month)
			require.Equal(t, w.WeekInMonth, got.WeekInMonth)
			seen[w.StartDate]++
		}
	}
	for start, n := range seen {
		require.Equal(t, 1, n, "week starting %s assigned %d times", start.Format(time.DateOnly), n)
	}
}

func TestResolveWeek_RejectsOutOfRangeInput(t *testing.T) {
	t.Parallel()

	_, err := ResolveWeek(2025, 13, 1)
	require.ErrorIs(t, err, ErrInvalidMonth)

	_, err = ResolveWeek(2025, time.May, 0)
	require.ErrorIs(t, err, ErrInvalidWeekInMonth)

	_, err = ResolveWeek(2025, time.May, 6)
	require.ErrorIs(t, err, ErrInvalidWeekInMonth)

	_, err = ResolveWeek(0, time.May, 1)
	require.ErrorIs(t, err, ErrInvalidYear)

	w, err := ResolveWeek(2025, time.August, 1)
	require.NoError(t, err)
	assert.Equal(t, WeekRange(2025, time.August, 1), w)
}

func TestWeeksBetween(t *testing.T) {
	t.Parallel()

	weeks, err := WeeksBetween(Date(2025, time.July, 30), Date(2025, time.August, 16))
	require.NoError(t, err)
	require.Len(t, weeks, 4)
	assert.Equal(t, "2025-07 W5", weeks[0].Label())
	assert.Equal(t, "2025-08 W2", weeks[1].Label())
	assert.Equal(t, "2025-08 W4", weeks[3].Label())

	_, err = WeeksBetween(Date(2025, time.August, 2), Date(2025, time.August, 1))
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestWeek_NextAndPrev(t *testing.T) {
	t.Parallel()

	w := WeekOf(Date(2025, time.December, 31))
	next := w.Next()
	assert.Equal(t, 2026, next.Year)
	assert.Equal(t, time.January, next.Month)
	assert.Equal(t, 2, next.WeekInMonth)
	assert.Equal(t, w, next.Prev())
}

func TestParseMonthRule(t *testing.T) {
	t.Parallel()

	rule, err := ParseMonthRule("")
	require.NoError(t, err)
	assert.Equal(t, MonthRuleAnchor, rule)

	rule, err = ParseMonthRule(" Majority ")
	require.NoError(t, err)
	assert.Equal(t, MonthRuleMajority, rule)

	_, err = ParseMonthRule("tuesday")
	require.ErrorIs(t, err, ErrInvalidMonthRule)
}
