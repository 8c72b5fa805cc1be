package repository

import (
	"context"
	"time"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/service"
	"examdrill_backend/internal/util"

	"gorm.io/gorm"
)

// Store bundles the per-entity repositories into the storage interface the
// services consume. WithTransaction hands out a Store bound to the
// transaction so every nested call shares it.
type Store struct {
	db        *gorm.DB
	Exams     *ExamRepository
	Questions *QuestionRepository
	Answers   *AnswerRepository
	Cards     *SrsCardRepository
	Bookmarks *BookmarkRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Exams:     NewExamRepository(db),
		Questions: NewQuestionRepository(db),
		Answers:   NewAnswerRepository(db),
		Cards:     NewSrsCardRepository(db),
		Bookmarks: NewBookmarkRepository(db),
	}
}

var _ service.Store = (*Store)(nil)

func (s *Store) CreateExam(ctx context.Context, exam *model.Exam) error {
	return s.Exams.Create(ctx, exam)
}

func (s *Store) GetExam(ctx context.Context, id string) (*model.Exam, error) {
	return s.Exams.FindByID(ctx, id)
}

func (s *Store) ListExams(ctx context.Context) ([]model.Exam, error) {
	return s.Exams.List(ctx)
}

func (s *Store) UpdateExam(ctx context.Context, exam *model.Exam) error {
	return s.Exams.Update(ctx, exam)
}

// DeleteExamCascade removes the exam and everything hanging off it in one
// transaction. A partial cascade is a data-integrity failure, so any error
// rolls the whole thing back.
func (s *Store) DeleteExamCascade(ctx context.Context, examID string) (service.DeletedCounts, error) {
	var counts service.DeletedCounts

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&model.Question{}).
			Where("exam_id = ?", examID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		counts.Questions = int64(len(questionIDs))

		if len(questionIDs) > 0 {
			res := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{})
			if res.Error != nil {
				return res.Error
			}
			counts.Answers = res.RowsAffected

			res = tx.Where("question_id IN ?", questionIDs).Delete(&model.SrsCard{})
			if res.Error != nil {
				return res.Error
			}
			counts.SrsCards = res.RowsAffected

			res = tx.Where("question_id IN ?", questionIDs).Delete(&model.Bookmark{})
			if res.Error != nil {
				return res.Error
			}
			counts.Bookmarks = res.RowsAffected

			if err := tx.Where("exam_id = ?", examID).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.Exam{}, "id = ?", examID).Error
	})

	if err != nil {
		return service.DeletedCounts{}, util.TranslateStorageError(err)
	}
	return counts, nil
}

func (s *Store) CreateQuestions(ctx context.Context, questions []model.Question) error {
	return s.Questions.CreateBatch(ctx, questions)
}

func (s *Store) GetQuestion(ctx context.Context, examID string, number int) (*model.Question, error) {
	return s.Questions.FindByNumber(ctx, examID, number)
}

func (s *Store) GetQuestionByID(ctx context.Context, id string) (*model.Question, error) {
	return s.Questions.FindByID(ctx, id)
}

func (s *Store) ListQuestions(ctx context.Context, examID string) ([]model.Question, error) {
	return s.Questions.ListByExam(ctx, examID)
}

func (s *Store) CountQuestions(ctx context.Context, examID string) (int64, error) {
	return s.Questions.CountByExam(ctx, examID)
}

func (s *Store) MaxQuestionNumber(ctx context.Context, examID string) (int, error) {
	return s.Questions.MaxNumber(ctx, examID)
}

func (s *Store) FirstUnseenQuestion(ctx context.Context, examID string) (*model.Question, error) {
	return s.Questions.FirstUnseen(ctx, examID)
}

func (s *Store) SetQuestionImage(ctx context.Context, questionID, imageURL string) error {
	return s.Questions.SetImage(ctx, questionID, imageURL)
}

func (s *Store) GetCard(ctx context.Context, questionID string) (*model.SrsCard, error) {
	return s.Cards.FindByQuestion(ctx, questionID)
}

func (s *Store) UpsertCard(ctx context.Context, card *model.SrsCard) error {
	return s.Cards.Upsert(ctx, card)
}

func (s *Store) ListCards(ctx context.Context, examID string) ([]model.SrsCard, error) {
	return s.Cards.ListByExam(ctx, examID)
}

func (s *Store) NextDueCard(ctx context.Context, examID string, now time.Time) (*model.SrsCard, error) {
	return s.Cards.NextDue(ctx, examID, now)
}

func (s *Store) CountDueCards(ctx context.Context, examID string, now time.Time) (int64, error) {
	return s.Cards.CountDue(ctx, examID, now)
}

func (s *Store) InsertAnswer(ctx context.Context, answer *model.Answer) error {
	return s.Answers.Insert(ctx, answer)
}

func (s *Store) AnswerExists(ctx context.Context, questionID string, answeredAt time.Time) (bool, error) {
	return s.Answers.Exists(ctx, questionID, answeredAt)
}

func (s *Store) ListAnswers(ctx context.Context, examID string) ([]model.Answer, error) {
	return s.Answers.ListByExam(ctx, examID)
}

func (s *Store) CountAnswers(ctx context.Context, examID string) (int64, int64, error) {
	return s.Answers.CountByExam(ctx, examID)
}

func (s *Store) InsertBookmark(ctx context.Context, bookmark *model.Bookmark) error {
	return s.Bookmarks.Insert(ctx, bookmark)
}

func (s *Store) DeleteBookmark(ctx context.Context, questionID string) error {
	return s.Bookmarks.Delete(ctx, questionID)
}

func (s *Store) GetBookmark(ctx context.Context, questionID string) (*model.Bookmark, error) {
	return s.Bookmarks.FindByQuestion(ctx, questionID)
}

func (s *Store) ListBookmarks(ctx context.Context, examID string) ([]model.Bookmark, error) {
	return s.Bookmarks.ListByExam(ctx, examID)
}

func (s *Store) WithTransaction(ctx context.Context, fn func(service.Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return util.TranslateStorageError(err)
}
