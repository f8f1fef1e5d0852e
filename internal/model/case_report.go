package model

import "time"

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReported ReportStatus = "reported"
)

func (s ReportStatus) Valid() bool {
	return s == ReportPending || s == ReportReported
}

var (
	ReportAsValues            = []string{"Adult", "Child"}
	TypeOfAbuseValues         = []string{"Sexual", "Physical", "Emotional"}
	CaseSuspectRelationValues = []string{"Yes", "No"}
)

type CaseReport struct {
	ID                  uint64       `gorm:"primaryKey" json:"id"`
	UserID              uint64       `gorm:"not null;index" json:"userId"`
	ReportAs            string       `gorm:"size:16;not null" json:"reportAs"`
	TypeOfAbuse         string       `gorm:"size:16;not null" json:"typeOfAbuse"`
	VictimName          string       `gorm:"size:128;not null" json:"victimName"`
	VictimAge           int          `gorm:"not null" json:"victimAge"`
	VictimAddress       string       `gorm:"size:255;not null" json:"victimAddress"`
	GuardianName        string       `gorm:"size:128;not null" json:"guardianName"`
	GuardianAddress     string       `gorm:"size:255;not null" json:"guardianAddress"`
	SuspectName         string       `gorm:"size:128;not null" json:"suspectName"`
	SuspectAge          int          `gorm:"not null" json:"suspectAge"`
	CaseSuspectRelation string       `gorm:"size:8;not null" json:"caseSuspectRelation"`
	SuspectAddress      string       `gorm:"size:255;not null" json:"suspectAddress"`
	Status              ReportStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt           time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

func (CaseReport) TableName() string {
	return "case_reports"
}
