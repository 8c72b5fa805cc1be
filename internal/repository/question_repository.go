package repository

import (
	"context"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return util.TranslateStorageError(r.DB.WithContext(ctx).Create(&questions).Error)
}

func (r *QuestionRepository) FindByNumber(ctx context.Context, examID string, number int) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).
		First(&q, "exam_id = ? AND number = ?", examID, number).Error
	if err != nil {
		return nil, util.TranslateStorageError(err)
	}
	return &q, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).First(&q, "id = ?", id).Error
	if err != nil {
		return nil, util.TranslateStorageError(err)
	}
	return &q, nil
}

func (r *QuestionRepository) ListByExam(ctx context.Context, examID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("number asc").
		Find(&qs).Error
	return qs, util.TranslateStorageError(err)
}

func (r *QuestionRepository) CountByExam(ctx context.Context, examID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("exam_id = ?", examID).
		Count(&count).Error
	return count, util.TranslateStorageError(err)
}

func (r *QuestionRepository) MaxNumber(ctx context.Context, examID string) (int, error) {
	var max int
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Where("exam_id = ?", examID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	return max, util.TranslateStorageError(err)
}

// FirstUnseen returns the lowest-numbered question without an SRS card, i.e.
// one that has never been answered. Nil result means every question is seen.
func (r *QuestionRepository) FirstUnseen(ctx context.Context, examID string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).
		Joins("LEFT JOIN srs_cards ON srs_cards.question_id = questions.id").
		Where("questions.exam_id = ? AND srs_cards.id IS NULL", examID).
		Order("questions.number asc").
		First(&q).Error
	if err != nil {
		if translated := util.TranslateStorageError(err); translated == util.ErrNotFound {
			return nil, nil
		}
		return nil, util.TranslateStorageError(err)
	}
	return &q, nil
}

func (r *QuestionRepository) SetImage(ctx context.Context, questionID, imageURL string) error {
	var q model.Question
	if err := r.DB.WithContext(ctx).First(&q, "id = ?", questionID).Error; err != nil {
		return util.TranslateStorageError(err)
	}
	q.Data.ImageURL = imageURL
	err := r.DB.WithContext(ctx).Model(&q).Update("data", q.Data).Error
	return util.TranslateStorageError(err)
}
