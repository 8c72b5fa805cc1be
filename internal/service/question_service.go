package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/util"
	"examdrill_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const questionCacheTTL = time.Hour

// QuestionService owns the question bank. Questions are immutable once
// imported, which makes the per-exam list safe to cache; the cache is
// dropped whenever an import or image upload changes the bank.
type QuestionService struct {
	Store   Store
	Cache   *redis.Client // nil when redis is disabled
	Storage *StorageService
}

func NewQuestionService(store Store, cache *redis.Client, storage *StorageService) *QuestionService {
	return &QuestionService{Store: store, Cache: cache, Storage: storage}
}

// QuestionImportEntry is one question in an import payload. Number is
// optional; entries without one are appended after the current maximum.
type QuestionImportEntry struct {
	Number int `json:"number"`
	model.QuestionData
}

type ImportQuestionsRequest struct {
	Questions []QuestionImportEntry `json:"questions" binding:"required"`
}

type ImportQuestionsResult struct {
	Imported int `json:"imported"`
}

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// List returns the exam's questions ordered by number, serving the redis
// copy when one exists.
func (s *QuestionService) List(ctx context.Context, examID string) ([]model.Question, error) {
	if _, err := s.Store.GetExam(ctx, examID); err != nil {
		return nil, err
	}

	key := questionCacheKey(examID)
	if s.Cache != nil {
		raw, err := s.Cache.Get(ctx, key).Bytes()
		if err == nil {
			var questions []model.Question
			if json.Unmarshal(raw, &questions) == nil {
				return questions, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("question cache read failed", zap.Error(err))
		}
	}

	questions, err := s.Store.ListQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(questions); err == nil {
			if err := s.Cache.Set(ctx, key, raw, questionCacheTTL).Err(); err != nil {
				logger.Log.Warn("question cache write failed", zap.Error(err))
			}
		}
	}
	return questions, nil
}

func (s *QuestionService) Get(ctx context.Context, examID string, number int) (*model.Question, error) {
	return s.Store.GetQuestion(ctx, examID, number)
}

// Import validates and appends a batch of questions. The whole payload is
// checked before anything is written; a number already taken in the exam
// surfaces as a conflict from the unique index.
func (s *QuestionService) Import(ctx context.Context, examID string, req *ImportQuestionsRequest) (*ImportQuestionsResult, error) {
	if _, err := s.Store.GetExam(ctx, examID); err != nil {
		return nil, err
	}
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in payload", util.ErrValidation)
	}

	for i := range req.Questions {
		if err := validateQuestionData(&req.Questions[i].QuestionData); err != nil {
			return nil, fmt.Errorf("%w (entry %d)", err, i)
		}
	}

	maxNumber, err := s.Store.MaxQuestionNumber(ctx, examID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(req.Questions))
	questions := make([]model.Question, 0, len(req.Questions))
	next := maxNumber
	for i := range req.Questions {
		entry := &req.Questions[i]
		number := entry.Number
		if number == 0 {
			next++
			number = next
		} else if number > next {
			next = number
		}
		if number < 0 {
			return nil, fmt.Errorf("%w: question number %d is negative", util.ErrValidation, number)
		}
		if _, dup := seen[number]; dup {
			return nil, fmt.Errorf("%w: duplicate question number %d in payload", util.ErrValidation, number)
		}
		seen[number] = struct{}{}

		questions = append(questions, model.Question{
			ExamID: examID,
			Number: number,
			Data:   entry.QuestionData,
		})
	}

	if err := s.Store.CreateQuestions(ctx, questions); err != nil {
		return nil, err
	}
	s.invalidate(ctx, examID)

	logger.Log.Info("questions imported",
		zap.String("examId", examID),
		zap.Int("count", len(questions)))
	return &ImportQuestionsResult{Imported: len(questions)}, nil
}

// UploadImage stores an image for one question and records its URL on the
// question content.
func (s *QuestionService) UploadImage(ctx context.Context, examID string, number int, reader io.Reader, size int64, contentType string) (string, error) {
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: content type %q is not an accepted image type", util.ErrValidation, contentType)
	}

	question, err := s.Store.GetQuestion(ctx, examID, number)
	if err != nil {
		return "", err
	}

	objectKey := filepath.ToSlash(filepath.Join("questions", question.ID+ext))
	url, err := s.Storage.Upload(ctx, objectKey, reader, size, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrStorageUnavailable, err)
	}

	if err := s.Store.SetQuestionImage(ctx, question.ID, url); err != nil {
		return "", err
	}
	s.invalidate(ctx, examID)
	return url, nil
}

// Invalidate drops the cached question list for an exam. Exposed so the
// exam cascade delete can clear it too.
func (s *QuestionService) Invalidate(ctx context.Context, examID string) {
	s.invalidate(ctx, examID)
}

func (s *QuestionService) invalidate(ctx context.Context, examID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, questionCacheKey(examID)).Err(); err != nil {
		logger.Log.Warn("question cache invalidation failed", zap.Error(err))
	}
}

func questionCacheKey(examID string) string {
	return "examdrill:questions:" + examID
}

func validateQuestionData(d *model.QuestionData) error {
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("%w: question text is required", util.ErrValidation)
	}
	if len(d.Options) == 0 {
		return fmt.Errorf("%w: question has no options", util.ErrValidation)
	}
	if len(d.Correct) == 0 {
		return fmt.Errorf("%w: question has no correct options", util.ErrValidation)
	}
	for _, key := range d.Correct {
		if _, ok := d.Options[key]; !ok {
			return fmt.Errorf("%w: correct key %q is not an option", util.ErrValidation, key)
		}
	}
	return nil
}
