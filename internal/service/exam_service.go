package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/util"
	"examdrill_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	maxExamNameLen        = 200
	maxExamDescriptionLen = 1000
)

type ExamService struct {
	Store Store
}

func NewExamService(store Store) *ExamService {
	return &ExamService{Store: store}
}

type CreateExamRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateExamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ExamSummary is the list-view row: the exam plus the counters the
// overview page renders next to it.
type ExamSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	QuestionCount int64     `json:"questionCount"`
	Answered      int64     `json:"answered"`
	Accuracy      float64   `json:"accuracy"`
	DueForReview  int64     `json:"dueForReview"`
}

func (s *ExamService) Create(ctx context.Context, req *CreateExamRequest) (*model.Exam, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: exam name is required", util.ErrValidation)
	}
	if len(name) > maxExamNameLen {
		return nil, fmt.Errorf("%w: exam name exceeds %d characters", util.ErrValidation, maxExamNameLen)
	}
	if req.Description != nil && len(*req.Description) > maxExamDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", util.ErrValidation, maxExamDescriptionLen)
	}

	exam := &model.Exam{Name: name, Description: req.Description}
	if err := s.Store.CreateExam(ctx, exam); err != nil {
		return nil, err
	}

	logger.Log.Info("exam created", zap.String("examId", exam.ID), zap.String("name", exam.Name))
	return exam, nil
}

func (s *ExamService) Get(ctx context.Context, id string) (*model.Exam, error) {
	return s.Store.GetExam(ctx, id)
}

// List returns every exam with its study counters, newest first.
func (s *ExamService) List(ctx context.Context, now time.Time) ([]ExamSummary, error) {
	exams, err := s.Store.ListExams(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ExamSummary, 0, len(exams))
	for i := range exams {
		exam := &exams[i]
		if err := ctx.Err(); err != nil {
			return nil, util.TranslateStorageError(err)
		}

		total, err := s.Store.CountQuestions(ctx, exam.ID)
		if err != nil {
			return nil, err
		}
		answered, correct, err := s.Store.CountAnswers(ctx, exam.ID)
		if err != nil {
			return nil, err
		}
		due, err := s.Store.CountDueCards(ctx, exam.ID, now)
		if err != nil {
			return nil, err
		}

		accuracy := 0.0
		if answered > 0 {
			accuracy = math.Round(float64(correct)/float64(answered)*100*10) / 10
		}

		summaries = append(summaries, ExamSummary{
			ID:            exam.ID,
			Name:          exam.Name,
			Description:   exam.Description,
			CreatedAt:     exam.CreatedAt,
			QuestionCount: total,
			Answered:      answered,
			Accuracy:      accuracy,
			DueForReview:  due,
		})
	}
	return summaries, nil
}

func (s *ExamService) Update(ctx context.Context, id string, req *UpdateExamRequest) (*model.Exam, error) {
	exam, err := s.Store.GetExam(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: exam name is required", util.ErrValidation)
		}
		if len(name) > maxExamNameLen {
			return nil, fmt.Errorf("%w: exam name exceeds %d characters", util.ErrValidation, maxExamNameLen)
		}
		exam.Name = name
	}
	if req.Description != nil {
		if len(*req.Description) > maxExamDescriptionLen {
			return nil, fmt.Errorf("%w: description exceeds %d characters", util.ErrValidation, maxExamDescriptionLen)
		}
		exam.Description = req.Description
	}

	if err := s.Store.UpdateExam(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// Delete removes the exam and everything hanging off it in one
// transaction, reporting what was removed.
func (s *ExamService) Delete(ctx context.Context, id string) (DeletedCounts, error) {
	counts, err := s.Store.DeleteExamCascade(ctx, id)
	if err != nil {
		return DeletedCounts{}, err
	}

	logger.Log.Info("exam deleted",
		zap.String("examId", id),
		zap.Int64("questions", counts.Questions),
		zap.Int64("answers", counts.Answers),
		zap.Int64("srsCards", counts.SrsCards))
	return counts, nil
}
