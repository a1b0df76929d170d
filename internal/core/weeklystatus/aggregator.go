// Package weeklystatus はメンバーのライフサイクルイベントを営業週ごとに集計します。
//
// Classify と ContinuationRate は入力を変更しない純粋な関数で、並行に呼び出せます。
// Service はそれらをリポジトリ・キャッシュ・スナップショット保存と組み合わせるユースケース層です。
package weeklystatus

import (
	"fmt"
	"sort"
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/fiscalweek"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
)

// rule は優先度順に評価される分類規則です。最初に一致した規則の区分だけが採用されます。
type rule struct {
	bucket Bucket
	match  func(m *member.Member, week fiscalweek.Week, d diagnosis) (Entry, bool)
}

// primaryRules の並び順がそのまま優先度です。
var primaryRules = []rule{
	{bucket: BucketContractEnded, match: matchContractEnded},
	{bucket: BucketProjectEnded, match: matchProjectEnded},
	{bucket: BucketSwitching, match: matchSwitching},
	{bucket: BucketNewStarted, match: matchNewStarted},
}

// Classify は members を week に対して分類し、週次レポートを生成します。
// 4 つの主区分は互いに素で、カウンセリング開始はそれらと独立に判定されます。
func Classify(members []*member.Member, week fiscalweek.Week) *Report {
	buckets := make(map[Bucket][]Entry, len(primaryRules)+1)
	var (
		active   int
		warnings []Warning
	)

	for i, m := range members {
		if m == nil {
			warnings = append(warnings, Warning{
				Code:    WarningNilMember,
				Message: fmt.Sprintf("member at index %d is nil", i),
			})
			continue
		}

		d := diagnose(m)
		warnings = append(warnings, d.warnings...)

		if IsActiveAt(m, week.EndDate) {
			active++
		}

		for _, r := range primaryRules {
			if entry, ok := r.match(m, week, d); ok {
				buckets[r.bucket] = append(buckets[r.bucket], entry)
				break
			}
		}

		if in(m.FirstCounselingDate, week) {
			buckets[BucketCounselingStarted] = append(buckets[BucketCounselingStarted], newEntry(m, *m.FirstCounselingDate))
		}
	}

	for bucket := range buckets {
		sortEntries(buckets[bucket])
	}

	report := &Report{
		Week:               week,
		TotalActiveMembers: active,
		NewStarted:         nonNil(buckets[BucketNewStarted]),
		Switching:          nonNil(buckets[BucketSwitching]),
		ProjectEnded:       nonNil(buckets[BucketProjectEnded]),
		ContractEnded:      nonNil(buckets[BucketContractEnded]),
		CounselingStarted:  nonNil(buckets[BucketCounselingStarted]),
		Warnings:           warnings,
	}
	report.Counts = Counts{
		NewStarted:        len(report.NewStarted),
		Switching:         len(report.Switching),
		ProjectEnded:      len(report.ProjectEnded),
		ContractEnded:     len(report.ContractEnded),
		CounselingStarted: len(report.CounselingStarted),
	}
	return report
}

// IsActiveAt は date 時点で稼働中かを返します。
// 開始日は LastWorkStartDate を優先し、無ければ FirstWorkStartDate を用います。
// 終了日は LastWorkEndDate を優先し、無ければ ContractEndDate を用います。
// 切り替え中 (終了日が開始日より前) のメンバーも終了日で判定するため、稼働中には数えません。
func IsActiveAt(m *member.Member, date time.Time) bool {
	start := effectiveStart(m)
	if start == nil {
		return false
	}
	d := fiscalweek.Truncate(date)
	if start.After(d) {
		return false
	}
	end := effectiveEnd(m)
	return end == nil || !end.Before(d)
}

func effectiveStart(m *member.Member) *time.Time {
	if m.LastWorkStartDate != nil {
		return m.LastWorkStartDate
	}
	return m.FirstWorkStartDate
}

func effectiveEnd(m *member.Member) *time.Time {
	if m.LastWorkEndDate != nil {
		return m.LastWorkEndDate
	}
	return m.ContractEndDate
}

func matchContractEnded(m *member.Member, week fiscalweek.Week, d diagnosis) (Entry, bool) {
	if d.contractEndBeforeStart || !in(m.ContractEndDate, week) {
		return Entry{}, false
	}
	e := newEntry(m, *m.ContractEndDate)
	e.ProjectName = d.projectActiveOn(*m.ContractEndDate)
	return e, true
}

func matchProjectEnded(m *member.Member, week fiscalweek.Week, d diagnosis) (Entry, bool) {
	if !in(m.LastWorkEndDate, week) {
		return Entry{}, false
	}
	e := newEntry(m, *m.LastWorkEndDate)
	e.ProjectName = d.projectEndedOn(*m.LastWorkEndDate)
	return e, true
}

func matchSwitching(m *member.Member, week fiscalweek.Week, d diagnosis) (Entry, bool) {
	start, end := m.LastWorkStartDate, m.LastWorkEndDate
	if start == nil || end == nil || !end.Before(*start) || !in(start, week) {
		return Entry{}, false
	}
	e := newEntry(m, *start)
	e.ProjectName = d.projectActiveOn(*start)
	e.PreviousProjectName = d.projectEndedOn(*end)
	return e, true
}

func matchNewStarted(m *member.Member, week fiscalweek.Week, d diagnosis) (Entry, bool) {
	start, end := m.LastWorkStartDate, m.LastWorkEndDate
	if !in(start, week) || (end != nil && end.Before(*start)) {
		return Entry{}, false
	}
	e := newEntry(m, *start)
	e.ProjectName = d.projectActiveOn(*start)
	return e, true
}

func in(date *time.Time, week fiscalweek.Week) bool {
	return date != nil && week.Contains(*date)
}

func newEntry(m *member.Member, date time.Time) Entry {
	return Entry{MemberID: m.ID, Name: m.Name, EventDate: fiscalweek.Truncate(date)}
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].EventDate.Equal(entries[j].EventDate) {
			return entries[i].EventDate.Before(entries[j].EventDate)
		}
		return entries[i].MemberID < entries[j].MemberID
	})
}

func nonNil(entries []Entry) []Entry {
	if entries == nil {
		return []Entry{}
	}
	return entries
}
