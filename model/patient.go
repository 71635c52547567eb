package model

import (
	"strings"
	"time"
)

// Patient is one intake submission. Scoring fields and upload fields share the row.
// @Description Patient intake record
type Patient struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement" example:"1"`
	PatientID    string    `json:"patient_id" gorm:"column:patient_id" example:"Jane Doe"`
	Age          int       `json:"age" gorm:"column:age" example:"52"`
	Gender       string    `json:"gender" gorm:"column:gender" example:"Female"`
	Duration     int       `json:"duration" gorm:"column:duration" example:"7"`
	Symptoms     string    `json:"symptoms" gorm:"column:symptoms;type:text" example:"Persistent cough,Wheezing"`
	CancerType   string    `json:"cancer_type" gorm:"column:cancer_type" example:"Lung Cancer"`
	Severity     string    `json:"severity" gorm:"column:severity" example:"Moderate"`
	Urgency      string    `json:"urgency" gorm:"column:urgency" example:"Doctor Visit Recommended"`
	Confidence   float64   `json:"confidence" gorm:"column:confidence" example:"63.5"`
	SurvivalProb float64   `json:"survival_prob" gorm:"column:survival_prob" example:"0.41"`
	ScanFile     string    `json:"scan_file" gorm:"column:scan_file" example:"5f0c6a4e-1d1b-4b8e-9a57-0b3f1c2d4e5f.png"`
	LabFile      string    `json:"lab_file" gorm:"column:lab_file"`
	HistoryFile  string    `json:"history_file" gorm:"column:history_file"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (Patient) TableName() string {
	return "patients"
}

// SymptomList splits the stored comma-joined symptoms.
func (p Patient) SymptomList() []string {
	return SplitSymptoms(p.Symptoms)
}

// SplitSymptoms splits a comma-joined symptom string, dropping blanks.
func SplitSymptoms(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return []string{}
	}
	parts := strings.Split(joined, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// JoinSymptoms is the inverse of SplitSymptoms.
func JoinSymptoms(symptoms []string) string {
	return strings.Join(symptoms, ",")
}
