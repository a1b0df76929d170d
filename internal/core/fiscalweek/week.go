package fiscalweek

import (
	"fmt"
	"time"
)

const (
	daysPerWeek = 7
	// centerOffset は土曜始まりの週における火曜日までの日数です。
	centerOffset = 3
)

// Week は「年・月・月内週番号」で表される営業週です。
// StartDate は常に土曜日、EndDate はその 6 日後の金曜日です。
type Week struct {
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	WeekInMonth int        `json:"week_in_month"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
}

// Contains は date が週の範囲 [StartDate, EndDate] に含まれるかを返します。
func (w Week) Contains(date time.Time) bool {
	d := Truncate(date)
	return !d.Before(w.StartDate) && !d.After(w.EndDate)
}

// Label は "2025-08 W1" 形式の表示用ラベルを返します。
func (w Week) Label() string {
	return fmt.Sprintf("%04d-%02d W%d", w.Year, int(w.Month), w.WeekInMonth)
}

// Key はキャッシュやスナップショットで用いる機械可読なキーです。
func (w Week) Key() string {
	return fmt.Sprintf("%04d-%02d-w%d", w.Year, int(w.Month), w.WeekInMonth)
}

// Next は翌週を WeekOf の規則で返します。
func (w Week) Next() Week {
	return WeekOf(w.StartDate.AddDate(0, 0, daysPerWeek))
}

// Prev は前週を WeekOf の規則で返します。
func (w Week) Prev() Week {
	return WeekOf(w.StartDate.AddDate(0, 0, -daysPerWeek))
}

// Center は週の中心日 (火曜日) を返します。
func (w Week) Center() time.Time {
	return w.StartDate.AddDate(0, 0, centerOffset)
}

// Date は UTC 0 時の暦日を生成します。
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate は時刻部分を落とし、t の暦日を UTC 0 時として返します。
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// saturdayOnOrBefore は date を含む週の開始土曜日を返します。
func saturdayOnOrBefore(date time.Time) time.Time {
	d := Truncate(date)
	offset := (int(d.Weekday()) + 1) % daysPerWeek
	return d.AddDate(0, 0, -offset)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
