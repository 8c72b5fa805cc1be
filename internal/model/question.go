package model

// QuestionData is the validated content of a question. It is typed at the
// storage boundary; malformed payloads are rejected at import time so the
// study engine never sees an empty correct set or an option-less question.
// swagger:model QuestionData
type QuestionData struct {
	Text    string            `json:"text" binding:"required"`
	Options map[string]string `json:"options" binding:"required"`
	Correct []string          `json:"correct" binding:"required"`

	Explanation string            `json:"explanation,omitempty"`
	WhyWrong    map[string]string `json:"whyWrong,omitempty"`

	Section    string   `json:"section,omitempty"`
	SectionID  string   `json:"sectionId,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Confidence string   `json:"confidence,omitempty"` // high, medium, low

	ImageURL  string `json:"imageUrl,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// CorrectSet returns the correct option keys as a set.
func (d *QuestionData) CorrectSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Correct))
	for _, k := range d.Correct {
		set[k] = struct{}{}
	}
	return set
}

// Question is immutable once imported. Number is the exam-scoped sequential
// identity that stays stable across progress export and re-import.
// swagger:model Question
type Question struct {
	UUIDBase
	ExamID string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_exam_number,priority:1;index" json:"examId"`
	Number int          `gorm:"not null;uniqueIndex:idx_exam_number,priority:2" json:"number"`
	Data   QuestionData `gorm:"type:json;serializer:json" json:"data"`
}

func (Question) TableName() string {
	return "questions"
}
