package repository

import (
	"context"
	"time"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/util"

	"gorm.io/gorm"
)

type SrsCardRepository struct {
	DB *gorm.DB
}

func NewSrsCardRepository(db *gorm.DB) *SrsCardRepository {
	return &SrsCardRepository{DB: db}
}

func (r *SrsCardRepository) FindByQuestion(ctx context.Context, questionID string) (*model.SrsCard, error) {
	var card model.SrsCard
	err := r.DB.WithContext(ctx).First(&card, "question_id = ?", questionID).Error
	if err != nil {
		return nil, util.TranslateStorageError(err)
	}
	return &card, nil
}

// Upsert writes a card with an optimistic version check. A zero ID inserts;
// the unique question_id index turns a concurrent double-insert into
// ErrConflict. Updates match on the version read earlier and bump it; zero
// rows affected means another writer got there first.
func (r *SrsCardRepository) Upsert(ctx context.Context, card *model.SrsCard) error {
	if card.ID == 0 {
		return util.TranslateStorageError(r.DB.WithContext(ctx).Create(card).Error)
	}

	res := r.DB.WithContext(ctx).Model(&model.SrsCard{}).
		Where("id = ? AND version = ?", card.ID, card.Version).
		Updates(map[string]interface{}{
			"repetitions":   card.Repetitions,
			"ease_factor":   card.EaseFactor,
			"interval_days": card.IntervalDays,
			"next_review":   card.NextReview,
			"last_grade":    card.LastGrade,
			"version":       card.Version + 1,
		})
	if res.Error != nil {
		return util.TranslateStorageError(res.Error)
	}
	if res.RowsAffected == 0 {
		return util.ErrConflict
	}
	card.Version++
	return nil
}

func (r *SrsCardRepository) ListByExam(ctx context.Context, examID string) ([]model.SrsCard, error) {
	var cards []model.SrsCard
	err := r.DB.WithContext(ctx).
		Joins("JOIN questions ON questions.id = srs_cards.question_id").
		Where("questions.exam_id = ?", examID).
		Order("questions.number asc").
		Find(&cards).Error
	return cards, util.TranslateStorageError(err)
}

// NextDue returns the due card with the earliest next_review, oldest overdue
// first, or nil when nothing is due.
func (r *SrsCardRepository) NextDue(ctx context.Context, examID string, now time.Time) (*model.SrsCard, error) {
	var card model.SrsCard
	err := r.DB.WithContext(ctx).
		Joins("JOIN questions ON questions.id = srs_cards.question_id").
		Where("questions.exam_id = ? AND srs_cards.next_review <= ?", examID, now).
		Order("srs_cards.next_review asc").
		First(&card).Error
	if err != nil {
		if translated := util.TranslateStorageError(err); translated == util.ErrNotFound {
			return nil, nil
		}
		return nil, util.TranslateStorageError(err)
	}
	return &card, nil
}

func (r *SrsCardRepository) CountDue(ctx context.Context, examID string, now time.Time) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.SrsCard{}).
		Joins("JOIN questions ON questions.id = srs_cards.question_id").
		Where("questions.exam_id = ? AND srs_cards.next_review <= ?", examID, now).
		Count(&count).Error
	return count, util.TranslateStorageError(err)
}
