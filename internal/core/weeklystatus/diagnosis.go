package weeklystatus

import (
	"fmt"
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
)

// diagnosis はメンバー 1 件分のデータ品質チェック結果と、整合した稼働履歴です。
type diagnosis struct {
	warnings               []Warning
	contractEndBeforeStart bool
	history                []member.WorkHistoryEntry
}

func diagnose(m *member.Member) diagnosis {
	var d diagnosis

	for _, h := range m.WorkHistory {
		if h.Inverted() {
			d.warnings = append(d.warnings, Warning{
				MemberID: m.ID,
				Code:     WarningWorkHistoryInverted,
				Message: fmt.Sprintf("work history %q ends %s before it starts %s",
					h.ProjectName, h.EndDate.Format(time.DateOnly), h.StartDate.Format(time.DateOnly)),
			})
			continue
		}
		d.history = append(d.history, h)
	}

	first, last := m.FirstWorkStartDate, m.LastWorkStartDate
	if first != nil && last != nil && first.After(*last) {
		d.warnings = append(d.warnings, Warning{
			MemberID: m.ID,
			Code:     WarningFirstStartAfterLastStart,
			Message: fmt.Sprintf("first work start %s is after last work start %s",
				first.Format(time.DateOnly), last.Format(time.DateOnly)),
		})
	}

	if contractEnd := m.ContractEndDate; contractEnd != nil && first != nil && contractEnd.Before(*first) {
		d.contractEndBeforeStart = true
		d.warnings = append(d.warnings, Warning{
			MemberID: m.ID,
			Code:     WarningContractEndBeforeStart,
			Message: fmt.Sprintf("contract end %s is before first work start %s",
				contractEnd.Format(time.DateOnly), first.Format(time.DateOnly)),
		})
	}

	return d
}

// projectActiveOn は date 時点で稼働中の案件のうち最も新しく開始したものの名前を返します。
// 該当が無ければ date 以前に開始した最新の案件名を返します。
func (d diagnosis) projectActiveOn(date time.Time) string {
	var active, latest *member.WorkHistoryEntry
	for i := range d.history {
		h := &d.history[i]
		if h.StartDate.After(date) {
			continue
		}
		if latest == nil || !h.StartDate.Before(latest.StartDate) {
			latest = h
		}
		if h.EndDate != nil && h.EndDate.Before(date) {
			continue
		}
		if active == nil || !h.StartDate.Before(active.StartDate) {
			active = h
		}
	}
	switch {
	case active != nil:
		return active.ProjectName
	case latest != nil:
		return latest.ProjectName
	default:
		return ""
	}
}

// projectEndedOn は date に終了した案件名を返します。
// 該当が無ければ date 以前に終了した最新の案件名を返します。
func (d diagnosis) projectEndedOn(date time.Time) string {
	var (
		name  string
		ended time.Time
	)
	for _, h := range d.history {
		if h.EndDate == nil || h.EndDate.After(date) {
			continue
		}
		if name == "" || !h.EndDate.Before(ended) {
			name, ended = h.ProjectName, *h.EndDate
		}
	}
	return name
}
