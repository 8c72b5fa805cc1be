package model

// Bookmark flags a question for the user. Independent of scheduling.
// swagger:model Bookmark
type Bookmark struct {
	BaseModel
	QuestionID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"questionId"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
