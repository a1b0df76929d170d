// Package fiscalweek は土曜始まり・月内週番号による営業週カレンダーを提供します。
//
// 週は土曜日に始まり金曜日に終わります。月の第 1 週は「1 日を含む週」で、
// 日付から週を逆算する場合は週の中心である火曜日の属する月をその週の名目上の月とします。
// パッケージ内の関数はすべて副作用を持たず、並行に呼び出して構いません。
package fiscalweek

import (
	"fmt"
	"strings"
	"time"
)

// MaxWeeksInMonth は 1 か月に含まれ得る土曜始まりの週の最大数です。
const MaxWeeksInMonth = 5

const (
	minYear = 1
	maxYear = 9999
)

// MonthRule は週をどの月に帰属させるかの規則です。
type MonthRule string

const (
	// MonthRuleAnchor は 1 日起点の週番号から月跨ぎ週を除外する規則です (ValidWeeksInMonth)。
	MonthRuleAnchor MonthRule = "anchor"
	// MonthRuleMajority は 7 日のうち過半数を含む月へ週を割り当てる規則です (WeeksAssignedToMonth)。
	MonthRuleMajority MonthRule = "majority"
)

// ParseMonthRule は文字列から MonthRule を解釈します。空文字は MonthRuleAnchor です。
func ParseMonthRule(raw string) (MonthRule, error) {
	switch MonthRule(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MonthRuleAnchor:
		return MonthRuleAnchor, nil
	case MonthRuleMajority:
		return MonthRuleMajority, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthRule, raw)
	}
}

// WeekRange は (year, month, weekInMonth) の週を返します。
// weekInMonth が 1〜5 の範囲外でも計算上は有効な週を返すため、範囲の検証は呼び出し側で行います。
func WeekRange(year int, month time.Month, weekInMonth int) Week {
	first := Date(year, month, 1)
	start := saturdayOnOrBefore(first).AddDate(0, 0, (weekInMonth-1)*daysPerWeek)
	return Week{
		Year:        year,
		Month:       month,
		WeekInMonth: weekInMonth,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, daysPerWeek-1),
	}
}

// WeekOf は date を含む週を返します。週の名目上の年月は火曜日の年月です。
func WeekOf(date time.Time) Week {
	start := saturdayOnOrBefore(date)
	center := start.AddDate(0, 0, centerOffset)
	year, month := center.Year(), center.Month()

	anchor := WeekRange(year, month, 1).StartDate
	return Week{
		Year:        year,
		Month:       month,
		WeekInMonth: daysBetween(anchor, start)/daysPerWeek + 1,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, daysPerWeek-1),
	}
}

// IsCrossMonthWeek は週の開始土曜日、または中心の火曜日が month の外にある場合に true を返します。
// 火曜日も見るのは、WeekOf が翌月の週として数える末尾の週 (例: 2025-03 W5) を有効週に含めないためです。
func IsCrossMonthWeek(year int, month time.Month, weekInMonth int) bool {
	w := WeekRange(year, month, weekInMonth)
	return w.StartDate.Month() != month || w.Center().Month() != month
}

// ValidWeeksInMonth は月跨ぎでない週番号を昇順で返します。
func ValidWeeksInMonth(year int, month time.Month) []int {
	weeks := make([]int, 0, MaxWeeksInMonth)
	for w := 1; w <= MaxWeeksInMonth; w++ {
		if IsCrossMonthWeek(year, month, w) {
			continue
		}
		weeks = append(weeks, w)
	}
	return weeks
}

// WeeksAssignedToMonth は 7 日の過半数が month に属する週をすべて返します。
// 週番号は WeekRange と同じ 1 日起点の番号を保持します。
func WeeksAssignedToMonth(year int, month time.Month) []Week {
	last := Date(year, month+1, 1).AddDate(0, 0, -1)

	weeks := make([]Week, 0, MaxWeeksInMonth)
	for w := 1; ; w++ {
		wk := WeekRange(year, month, w)
		if wk.StartDate.After(last) {
			break
		}
		y, m := majorityMonth(wk)
		if y == year && m == month {
			weeks = append(weeks, wk)
		}
	}
	return weeks
}

// WeeksInMonth は rule に従って month に属する週を返します。
func WeeksInMonth(year int, month time.Month, rule MonthRule) ([]Week, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}

	switch rule {
	case MonthRuleAnchor:
		valid := ValidWeeksInMonth(year, month)
		weeks := make([]Week, 0, len(valid))
		for _, w := range valid {
			weeks = append(weeks, WeekRange(year, month, w))
		}
		return weeks, nil
	case MonthRuleMajority:
		return WeeksAssignedToMonth(year, month), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonthRule, rule)
	}
}

// ValidateMonth は年と月の範囲を検証します。
func ValidateMonth(year int, month time.Month) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, int(month))
	}
	return nil
}

// ResolveWeek は入力を検証した上で WeekRange を返します。
func ResolveWeek(year int, month time.Month, weekInMonth int) (Week, error) {
	if err := ValidateMonth(year, month); err != nil {
		return Week{}, err
	}
	if weekInMonth < 1 || weekInMonth > MaxWeeksInMonth {
		return Week{}, fmt.Errorf("%w: %d", ErrInvalidWeekInMonth, weekInMonth)
	}
	return WeekRange(year, month, weekInMonth), nil
}

// WeeksBetween は from を含む週から to を含む週までを WeekOf の規則で順に返します。
func WeeksBetween(from, to time.Time) ([]Week, error) {
	from, to = Truncate(from), Truncate(to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", ErrInvalidDateRange, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	var weeks []Week
	for wk := WeekOf(from); !wk.StartDate.After(to); wk = wk.Next() {
		weeks = append(weeks, wk)
	}
	return weeks, nil
}

func majorityMonth(w Week) (int, time.Month) {
	type yearMonth struct {
		year  int
		month time.Month
	}

	counts := make(map[yearMonth]int, 2)
	var (
		best      yearMonth
		bestCount int
	)
	for i := 0; i < daysPerWeek; i++ {
		d := w.StartDate.AddDate(0, 0, i)
		key := yearMonth{year: d.Year(), month: d.Month()}
		counts[key]++
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}
	return best.year, best.month
}
