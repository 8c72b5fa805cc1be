package repository

import (
	"context"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/util"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(ctx context.Context, exam *model.Exam) error {
	return util.TranslateStorageError(r.DB.WithContext(ctx).Create(exam).Error)
}

func (r *ExamRepository) FindByID(ctx context.Context, id string) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.WithContext(ctx).First(&exam, "id = ?", id).Error
	if err != nil {
		return nil, util.TranslateStorageError(err)
	}
	return &exam, nil
}

func (r *ExamRepository) List(ctx context.Context) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.WithContext(ctx).Order("created_at desc").Find(&exams).Error
	return exams, util.TranslateStorageError(err)
}

func (r *ExamRepository) Update(ctx context.Context, exam *model.Exam) error {
	return util.TranslateStorageError(r.DB.WithContext(ctx).Save(exam).Error)
}
