package service

import (
	"context"
	"time"

	"examdrill_backend/internal/model"
)

// DeletedCounts reports what an exam cascade delete removed.
type DeletedCounts struct {
	Questions int64 `json:"questions"`
	Answers   int64 `json:"answers"`
	SrsCards  int64 `json:"srsCards"`
	Bookmarks int64 `json:"bookmarks"`
}

// Store is the storage surface the engine runs on. It is implemented by
// repository.Store over gorm and by the in-memory fake used in tests; the
// services never see a concrete database.
//
// WithTransaction scopes a unit of work: every Store method called on the
// argument runs inside one transaction, committed when fn returns nil and
// rolled back otherwise.
type Store interface {
	// Exams
	CreateExam(ctx context.Context, exam *model.Exam) error
	GetExam(ctx context.Context, id string) (*model.Exam, error)
	ListExams(ctx context.Context) ([]model.Exam, error)
	UpdateExam(ctx context.Context, exam *model.Exam) error
	DeleteExamCascade(ctx context.Context, examID string) (DeletedCounts, error)

	// Questions
	CreateQuestions(ctx context.Context, questions []model.Question) error
	GetQuestion(ctx context.Context, examID string, number int) (*model.Question, error)
	GetQuestionByID(ctx context.Context, id string) (*model.Question, error)
	ListQuestions(ctx context.Context, examID string) ([]model.Question, error)
	CountQuestions(ctx context.Context, examID string) (int64, error)
	MaxQuestionNumber(ctx context.Context, examID string) (int, error)
	FirstUnseenQuestion(ctx context.Context, examID string) (*model.Question, error)
	SetQuestionImage(ctx context.Context, questionID, imageURL string) error

	// SRS cards
	GetCard(ctx context.Context, questionID string) (*model.SrsCard, error)
	UpsertCard(ctx context.Context, card *model.SrsCard) error
	ListCards(ctx context.Context, examID string) ([]model.SrsCard, error)
	NextDueCard(ctx context.Context, examID string, now time.Time) (*model.SrsCard, error)
	CountDueCards(ctx context.Context, examID string, now time.Time) (int64, error)

	// Answers
	InsertAnswer(ctx context.Context, answer *model.Answer) error
	AnswerExists(ctx context.Context, questionID string, answeredAt time.Time) (bool, error)
	ListAnswers(ctx context.Context, examID string) ([]model.Answer, error)
	CountAnswers(ctx context.Context, examID string) (answered int64, correct int64, err error)

	// Bookmarks
	InsertBookmark(ctx context.Context, bookmark *model.Bookmark) error
	DeleteBookmark(ctx context.Context, questionID string) error
	GetBookmark(ctx context.Context, questionID string) (*model.Bookmark, error)
	ListBookmarks(ctx context.Context, examID string) ([]model.Bookmark, error)

	WithTransaction(ctx context.Context, fn func(Store) error) error
}
