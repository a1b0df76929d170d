package weeklystatus

import (
	"math"
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/fiscalweek"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
)

// StandardWindows はダッシュボードで表示する継続率の集計期間 (日数) です。
var StandardWindows = []int{30, 90, 180, 365}

// ContinuationRate は referenceDate から windowDays 日前までに初回稼働を開始したメンバーのうち、
// referenceDate 時点で稼働中の割合を百分率 (小数第 1 位で丸め) で返します。
// 対象者がいない場合の率は 0 です。
func ContinuationRate(members []*member.Member, referenceDate time.Time, windowDays int) ContinuationRateDetail {
	ref := fiscalweek.Truncate(referenceDate)
	from := ref.AddDate(0, 0, -windowDays)

	result := ContinuationRateDetail{WindowDays: windowDays, ReferenceDate: ref}
	for _, m := range members {
		if m == nil {
			continue
		}
		first := firstStart(m)
		if first == nil || first.Before(from) || first.After(ref) {
			continue
		}
		result.TargetCount++
		if IsActiveAt(m, ref) {
			result.ContinuedCount++
		}
	}

	if result.TargetCount > 0 {
		result.Rate = roundToTenth(float64(result.ContinuedCount) / float64(result.TargetCount) * 100)
	}
	return result
}

// ContinuationProfileOf は StandardWindows それぞれの継続率を順に返します。
func ContinuationProfileOf(members []*member.Member, referenceDate time.Time) *ContinuationProfile {
	profile := &ContinuationProfile{
		ReferenceDate: fiscalweek.Truncate(referenceDate),
		Rates:         make([]ContinuationRateDetail, 0, len(StandardWindows)),
	}
	for _, days := range StandardWindows {
		profile.Rates = append(profile.Rates, ContinuationRate(members, referenceDate, days))
	}
	return profile
}

func firstStart(m *member.Member) *time.Time {
	if m.FirstWorkStartDate != nil {
		return m.FirstWorkStartDate
	}
	return m.LastWorkStartDate
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
