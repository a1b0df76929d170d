package weeklystatus

import (
	"time"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/fiscalweek"
)

// Bucket は週次のライフサイクル区分です。
type Bucket string

const (
	BucketNewStarted        Bucket = "new_started"
	BucketSwitching         Bucket = "switching"
	BucketProjectEnded      Bucket = "project_ended"
	BucketContractEnded     Bucket = "contract_ended"
	BucketCounselingStarted Bucket = "counseling_started"
)

// WarningCode はデータ品質警告の種別です。
type WarningCode string

const (
	WarningNilMember                WarningCode = "nil_member"
	WarningWorkHistoryInverted      WarningCode = "work_history_inverted"
	WarningFirstStartAfterLastStart WarningCode = "first_start_after_last_start"
	WarningContractEndBeforeStart   WarningCode = "contract_end_before_start"
)

// Entry は区分に振り分けられたメンバー 1 件分の明細です。
type Entry struct {
	MemberID            string    `json:"member_id"`
	Name                string    `json:"name"`
	EventDate           time.Time `json:"event_date"`
	ProjectName         string    `json:"project_name,omitempty"`
	PreviousProjectName string    `json:"previous_project_name,omitempty"`
}

// Warning は集計時に検出したデータ品質上の問題です。集計は中断しません。
type Warning struct {
	MemberID string      `json:"member_id,omitempty"`
	Code     WarningCode `json:"code"`
	Message  string      `json:"message"`
}

// Counts は区分ごとの件数です。
type Counts struct {
	NewStarted        int `json:"new_started"`
	Switching         int `json:"switching"`
	ProjectEnded      int `json:"project_ended"`
	ContractEnded     int `json:"contract_ended"`
	CounselingStarted int `json:"counseling_started"`
}

// Report は 1 週分の集計結果です。生成後に変更されることはありません。
type Report struct {
	Week               fiscalweek.Week `json:"week"`
	TotalActiveMembers int             `json:"total_active_members"`
	Counts             Counts          `json:"counts"`
	NewStarted         []Entry         `json:"new_started"`
	Switching          []Entry         `json:"switching"`
	ProjectEnded       []Entry         `json:"project_ended"`
	ContractEnded      []Entry         `json:"contract_ended"`
	CounselingStarted  []Entry         `json:"counseling_started"`
	Warnings           []Warning       `json:"warnings,omitempty"`
}

// Entries は bucket に対応する明細を返します。
func (r *Report) Entries(bucket Bucket) []Entry {
	switch bucket {
	case BucketNewStarted:
		return r.NewStarted
	case BucketSwitching:
		return r.Switching
	case BucketProjectEnded:
		return r.ProjectEnded
	case BucketContractEnded:
		return r.ContractEnded
	case BucketCounselingStarted:
		return r.CounselingStarted
	default:
		return nil
	}
}

// ContinuationRateDetail は指定期間に稼働開始したメンバーの継続率です。
type ContinuationRateDetail struct {
	WindowDays     int       `json:"window_days"`
	ReferenceDate  time.Time `json:"reference_date"`
	TargetCount    int       `json:"target_count"`
	ContinuedCount int       `json:"continued_count"`
	Rate           float64   `json:"rate"`
}

// ContinuationProfile は複数期間の継続率をまとめたものです。
type ContinuationProfile struct {
	ReferenceDate time.Time                `json:"reference_date"`
	Rates         []ContinuationRateDetail `json:"rates"`
}

// MonthlyReports は 1 か月分の週次集計です。
type MonthlyReports struct {
	Year    int                  `json:"year"`
	Month   time.Month           `json:"month"`
	Rule    fiscalweek.MonthRule `json:"rule"`
	Reports []*Report            `json:"reports"`
}

// Snapshot は公開済みの週次集計です。
type Snapshot struct {
	ID          string    `json:"id"`
	WeekKey     string    `json:"week_key"`
	Report      *Report   `json:"report"`
	MemberCount int       `json:"member_count"`
	PublishedAt time.Time `json:"published_at"`
}
