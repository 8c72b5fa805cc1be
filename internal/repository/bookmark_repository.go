package repository

import (
	"context"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/util"

	"gorm.io/gorm"
)

type BookmarkRepository struct {
	DB *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{DB: db}
}

func (r *BookmarkRepository) Insert(ctx context.Context, bookmark *model.Bookmark) error {
	return util.TranslateStorageError(r.DB.WithContext(ctx).Create(bookmark).Error)
}

func (r *BookmarkRepository) Delete(ctx context.Context, questionID string) error {
	err := r.DB.WithContext(ctx).
		Where("question_id = ?", questionID).
		Delete(&model.Bookmark{}).Error
	return util.TranslateStorageError(err)
}

func (r *BookmarkRepository) FindByQuestion(ctx context.Context, questionID string) (*model.Bookmark, error) {
	var b model.Bookmark
	err := r.DB.WithContext(ctx).First(&b, "question_id = ?", questionID).Error
	if err != nil {
		return nil, util.TranslateStorageError(err)
	}
	return &b, nil
}

func (r *BookmarkRepository) ListByExam(ctx context.Context, examID string) ([]model.Bookmark, error) {
	var bs []model.Bookmark
	err := r.DB.WithContext(ctx).
		Joins("JOIN questions ON questions.id = bookmarks.question_id").
		Where("questions.exam_id = ?", examID).
		Order("bookmarks.created_at asc").
		Find(&bs).Error
	return bs, util.TranslateStorageError(err)
}
