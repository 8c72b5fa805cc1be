package model

import "time"

// Answer is one graded attempt. Records are immutable: re-answering a
// question inserts a new row, it never rewrites an old one. The unique
// (question_id, answered_at) index is also the snapshot idempotency key.
// swagger:model Answer
type Answer struct {
	BaseModel
	QuestionID  string    `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_question_answered,priority:1" json:"questionId"`
	Selected    []string  `gorm:"type:json;serializer:json" json:"selected"`
	Correct     bool      `gorm:"not null" json:"correct"`
	TimeSpentMs int64     `gorm:"not null;default:0" json:"timeSpentMs"`
	AnsweredAt  time.Time `gorm:"not null;uniqueIndex:idx_question_answered,priority:2" json:"answeredAt"`
}

func (Answer) TableName() string {
	return "answers"
}
