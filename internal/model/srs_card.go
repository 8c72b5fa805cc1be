package model

import "time"

// SrsCard is the scheduling cursor for one question. Created lazily on the
// first answer, updated in place on every later one. Version backs the
// optimistic lock on concurrent updates.
// swagger:model SrsCard
type SrsCard struct {
	BaseModel
	QuestionID   string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"questionId"`
	Repetitions  int       `gorm:"not null;default:0" json:"repetitions"`
	EaseFactor   float64   `gorm:"not null;default:2.5" json:"easeFactor"`
	IntervalDays int       `gorm:"not null;default:0" json:"intervalDays"`
	NextReview   time.Time `gorm:"not null;index" json:"nextReview"`
	LastGrade    int       `gorm:"not null;default:0" json:"lastGrade"`
	Version      uint      `gorm:"not null;default:0" json:"-"`
}

func (SrsCard) TableName() string {
	return "srs_cards"
}
