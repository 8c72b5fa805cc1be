package repository

import (
	"context"
	"time"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/util"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) Insert(ctx context.Context, answer *model.Answer) error {
	return util.TranslateStorageError(r.DB.WithContext(ctx).Create(answer).Error)
}

func (r *AnswerRepository) Exists(ctx context.Context, questionID string, answeredAt time.Time) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Answer{}).
		Where("question_id = ? AND answered_at = ?", questionID, answeredAt).
		Count(&count).Error
	return count > 0, util.TranslateStorageError(err)
}

func (r *AnswerRepository) ListByExam(ctx context.Context, examID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.WithContext(ctx).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("questions.exam_id = ?", examID).
		Order("answers.answered_at asc").
		Find(&answers).Error
	return answers, util.TranslateStorageError(err)
}

func (r *AnswerRepository) CountByExam(ctx context.Context, examID string) (answered int64, correct int64, err error) {
	base := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&model.Answer{}).
			Joins("JOIN questions ON questions.id = answers.question_id").
			Where("questions.exam_id = ?", examID)
	}
	if err = base().Count(&answered).Error; err != nil {
		return 0, 0, util.TranslateStorageError(err)
	}
	if err = base().Where("answers.correct = ?", true).Count(&correct).Error; err != nil {
		return 0, 0, util.TranslateStorageError(err)
	}
	return answered, correct, nil
}
