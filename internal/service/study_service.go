package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/srs"
	"examdrill_backend/internal/util"
	"examdrill_backend/pkg/logger"
	"examdrill_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// StudyService drives a study session: due-first question selection, answer
// grading and the transactional Answer + SrsCard write.
type StudyService struct {
	Store Store
}

func NewStudyService(store Store) *StudyService {
	return &StudyService{Store: store}
}

// StudyQuestion is a question as presented during a session: the correct
// keys and explanation stay hidden until the answer is submitted.
type StudyQuestion struct {
	Number    int               `json:"number"`
	Text      string            `json:"text"`
	Options   map[string]string `json:"options"`
	Section   string            `json:"section,omitempty"`
	SectionID string            `json:"sectionId,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	ImageURL  string            `json:"imageUrl,omitempty"`
}

type NextQuestionResponse struct {
	Done     bool           `json:"done"`
	Mode     string         `json:"mode,omitempty"` // review or new
	Question *StudyQuestion `json:"question,omitempty"`
}

type SubmitAnswerRequest struct {
	Number      int      `json:"number" binding:"required"`
	Selected    []string `json:"selected"`
	TimeSpentMs int64    `json:"timeSpentMs"`
	// Grade overrides the binary correct/incorrect mapping so a richer UI
	// can submit partial-credit grades. Absent means 5 when correct, 0 when not.
	Grade *int `json:"grade"`
}

type CardView struct {
	Repetitions  int       `json:"repetitions"`
	EaseFactor   float64   `json:"easeFactor"`
	IntervalDays int       `json:"intervalDays"`
	NextReview   time.Time `json:"nextReview"`
	LastGrade    int       `json:"lastGrade"`
}

type SubmitAnswerResult struct {
	Correct     bool              `json:"correct"`
	Grade       int               `json:"grade"`
	CorrectKeys []string          `json:"correctKeys"`
	Explanation string            `json:"explanation,omitempty"`
	WhyWrong    map[string]string `json:"whyWrong,omitempty"`
	Card        CardView          `json:"card"`
}

func studyQuestionView(q *model.Question) *StudyQuestion {
	return &StudyQuestion{
		Number:    q.Number,
		Text:      q.Data.Text,
		Options:   q.Data.Options,
		Section:   q.Data.Section,
		SectionID: q.Data.SectionID,
		Tags:      q.Data.Tags,
		ImageURL:  q.Data.ImageURL,
	}
}

// NextQuestion picks what to show next: the oldest overdue card first, then
// the lowest-numbered unseen question, otherwise the session is complete.
// Due items never starve behind new material, and new-question introduction
// is deterministic and resumable.
func (s *StudyService) NextQuestion(ctx context.Context, examID string, now time.Time) (*NextQuestionResponse, error) {
	if _, err := s.Store.GetExam(ctx, examID); err != nil {
		return nil, err
	}

	card, err := s.Store.NextDueCard(ctx, examID, now)
	if err != nil {
		return nil, err
	}
	if card != nil {
		q, err := s.Store.GetQuestionByID(ctx, card.QuestionID)
		if err != nil {
			return nil, err
		}
		return &NextQuestionResponse{Mode: "review", Question: studyQuestionView(q)}, nil
	}

	q, err := s.Store.FirstUnseenQuestion(ctx, examID)
	if err != nil {
		return nil, err
	}
	if q != nil {
		return &NextQuestionResponse{Mode: "new", Question: studyQuestionView(q)}, nil
	}

	return &NextQuestionResponse{Done: true}, nil
}

// SubmitAnswer grades a submission and persists the Answer plus the updated
// SrsCard atomically. A lost optimistic-lock race on the card is retried
// once with fresh state before the conflict surfaces.
func (s *StudyService) SubmitAnswer(ctx context.Context, examID string, req SubmitAnswerRequest, now time.Time) (*SubmitAnswerResult, error) {
	q, err := s.Store.GetQuestion(ctx, examID, req.Number)
	if err != nil {
		return nil, err
	}

	for _, key := range req.Selected {
		if _, ok := q.Data.Options[key]; !ok {
			return nil, fmt.Errorf("%w: unknown option key %q", util.ErrValidation, key)
		}
	}

	correct := sameKeySet(req.Selected, q.Data.Correct)

	grade := 0
	if correct {
		grade = srs.MaxGrade
	}
	if req.Grade != nil {
		if *req.Grade < 0 || *req.Grade > srs.MaxGrade {
			return nil, fmt.Errorf("%w: grade %d out of range", util.ErrValidation, *req.Grade)
		}
		grade = *req.Grade
	}

	card, err := s.applyReview(ctx, q.ID, grade, correct, req.Selected, req.TimeSpentMs, now)
	if errors.Is(err, util.ErrConflict) {
		logger.Log.Warn("srs card update conflict, retrying",
			zap.String("questionId", q.ID))
		card, err = s.applyReview(ctx, q.ID, grade, correct, req.Selected, req.TimeSpentMs, now)
	}
	if err != nil {
		return nil, err
	}

	result := "fail"
	if grade >= srs.PassThreshold {
		result = "pass"
	}
	monitoring.ReviewsTotal.WithLabelValues(result).Inc()

	return &SubmitAnswerResult{
		Correct:     correct,
		Grade:       grade,
		CorrectKeys: q.Data.Correct,
		Explanation: q.Data.Explanation,
		WhyWrong:    q.Data.WhyWrong,
		Card: CardView{
			Repetitions:  card.Repetitions,
			EaseFactor:   card.EaseFactor,
			IntervalDays: card.IntervalDays,
			NextReview:   card.NextReview,
			LastGrade:    card.LastGrade,
		},
	}, nil
}

// applyReview runs one Answer insert + SrsCard upsert as a unit of work.
// Both writes commit or neither does; a partial write would desynchronize
// the due count from the answer history.
func (s *StudyService) applyReview(ctx context.Context, questionID string, grade int, correct bool, selected []string, timeSpentMs int64, now time.Time) (*model.SrsCard, error) {
	var saved *model.SrsCard

	err := s.Store.WithTransaction(ctx, func(tx Store) error {
		card, err := tx.GetCard(ctx, questionID)
		if errors.Is(err, util.ErrNotFound) {
			// First answer to this question: the card is created lazily.
			card = &model.SrsCard{
				QuestionID: questionID,
				EaseFactor: srs.InitialEaseFactor,
			}
		} else if err != nil {
			return err
		}

		next, err := srs.Schedule(srs.CardState{
			Repetitions:  card.Repetitions,
			EaseFactor:   card.EaseFactor,
			IntervalDays: card.IntervalDays,
		}, grade, now)
		if err != nil {
			return fmt.Errorf("%w: %v", util.ErrValidation, err)
		}

		card.Repetitions = next.Repetitions
		card.EaseFactor = next.EaseFactor
		card.IntervalDays = next.IntervalDays
		card.NextReview = next.NextReview
		card.LastGrade = next.LastGrade

		if err := tx.InsertAnswer(ctx, &model.Answer{
			QuestionID:  questionID,
			Selected:    selected,
			Correct:     correct,
			TimeSpentMs: timeSpentMs,
			AnsweredAt:  now,
		}); err != nil {
			return err
		}

		if err := tx.UpsertCard(ctx, card); err != nil {
			return err
		}

		saved = card
		return nil
	})

	return saved, err
}

// sameKeySet compares two key slices as unordered sets.
func sameKeySet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	if len(set) != len(b) {
		return false
	}
	for _, k := range b {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

type BookmarkView struct {
	QuestionNumber int       `json:"questionNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SetBookmark flags a question. Already bookmarked is not an error.
func (s *StudyService) SetBookmark(ctx context.Context, examID string, number int) error {
	q, err := s.Store.GetQuestion(ctx, examID, number)
	if err != nil {
		return err
	}
	if _, err := s.Store.GetBookmark(ctx, q.ID); err == nil {
		return nil
	} else if !errors.Is(err, util.ErrNotFound) {
		return err
	}
	return s.Store.InsertBookmark(ctx, &model.Bookmark{QuestionID: q.ID})
}

// RemoveBookmark unflags a question. Removing a missing bookmark is a no-op.
func (s *StudyService) RemoveBookmark(ctx context.Context, examID string, number int) error {
	q, err := s.Store.GetQuestion(ctx, examID, number)
	if err != nil {
		return err
	}
	return s.Store.DeleteBookmark(ctx, q.ID)
}

func (s *StudyService) ListBookmarks(ctx context.Context, examID string) ([]BookmarkView, error) {
	if _, err := s.Store.GetExam(ctx, examID); err != nil {
		return nil, err
	}

	questions, err := s.Store.ListQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	numberByID := make(map[string]int, len(questions))
	for _, q := range questions {
		numberByID[q.ID] = q.Number
	}

	bookmarks, err := s.Store.ListBookmarks(ctx, examID)
	if err != nil {
		return nil, err
	}

	views := make([]BookmarkView, 0, len(bookmarks))
	for _, b := range bookmarks {
		views = append(views, BookmarkView{
			QuestionNumber: numberByID[b.QuestionID],
			CreatedAt:      b.CreatedAt,
		})
	}
	return views, nil
}
