package member

import "time"

// Status はメンバーの稼働状況を表します。
type Status string

const (
	StatusWorking         Status = "working"
	StatusLearningStarted Status = "learning_started"
	StatusRecruiting      Status = "recruiting"
	StatusTraining        Status = "training"
	StatusProjectReleased Status = "project_released"
	StatusWorkEnded       Status = "work_ended"
	StatusContractEnded   Status = "contract_ended"
	StatusInactive        Status = "inactive"
)

// Source はメンバー情報の取り込み元です。
type Source string

const (
	SourceNotion       Source = "notion"
	SourceGoogleSheets Source = "google_sheets"
	SourceManual       Source = "manual"
)

// Member は人材派遣のメンバー (稼働者) エンティティです。
// 日付はすべて UTC 0 時の暦日で、nil は未設定を表します。
type Member struct {
	ID                  string
	ExternalID          string
	Source              Source
	Name                string
	Status              Status
	FirstWorkStartDate  *time.Time
	LastWorkStartDate   *time.Time
	LastWorkEndDate     *time.Time
	ContractEndDate     *time.Time
	FirstCounselingDate *time.Time
	WorkHistory         []WorkHistoryEntry
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WorkHistoryEntry は案件ごとの稼働履歴です。
type WorkHistoryEntry struct {
	StartDate   time.Time
	EndDate     *time.Time
	ProjectName string
}

// Inverted は終了日が開始日より前になっている不整合な履歴かを返します。
func (e WorkHistoryEntry) Inverted() bool {
	return e.EndDate != nil && e.EndDate.Before(e.StartDate)
}

// DatasetVersion はメンバー集合の更新を検出するための指紋です。
type DatasetVersion struct {
	Count         int
	LastUpdatedAt time.Time
}
