package model

// Exam is the root entity; questions, answers, cards and bookmarks all hang
// off it and are removed together by the cascade delete.
// swagger:model Exam
type Exam struct {
	UUIDBase
	Name        string  `gorm:"size:200;not null" json:"name"`
	Description *string `gorm:"size:1000" json:"description"`
}

func (Exam) TableName() string {
	return "exams"
}
