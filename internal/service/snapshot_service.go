package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/srs"
	"examdrill_backend/internal/util"
	"examdrill_backend/pkg/logger"
	"examdrill_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SnapshotVersion is the current progress interchange format version.
// Imports accept any snapshot sharing the same major version.
const SnapshotVersion = "1.0.0"

// Snapshot is the versioned, self-contained export of one exam's study
// history. Entries are keyed by question number, never by row id, so a
// snapshot survives re-import into a freshly provisioned database.
type Snapshot struct {
	Version    string             `json:"version" binding:"required"`
	ExportedAt time.Time          `json:"exportedAt"`
	ExamID     string             `json:"examId"`
	Answers    []SnapshotAnswer   `json:"answers"`
	SrsCards   []SnapshotCard     `json:"srsCards"`
	Bookmarks  []SnapshotBookmark `json:"bookmarks"`
}

type SnapshotAnswer struct {
	QuestionNumber int       `json:"questionNumber"`
	Selected       []string  `json:"selected"`
	Correct        bool      `json:"correct"`
	TimeSpentMs    int64     `json:"timeSpentMs"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

type SnapshotCard struct {
	QuestionNumber int       `json:"questionNumber"`
	EaseFactor     float64   `json:"easeFactor"`
	IntervalDays   int       `json:"intervalDays"`
	Repetitions    int       `json:"repetitions"`
	NextReview     time.Time `json:"nextReview"`
	LastGrade      int       `json:"lastGrade"`
}

type SnapshotBookmark struct {
	QuestionNumber int       `json:"questionNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ImportResult struct {
	AnswersImported   int `json:"answersImported"`
	AnswersSkipped    int `json:"answersSkipped"`
	CardsApplied      int `json:"cardsApplied"`
	BookmarksImported int `json:"bookmarksImported"`
	BookmarksSkipped  int `json:"bookmarksSkipped"`
}

// SnapshotService exports and replays progress snapshots. Import goes
// through the same InsertAnswer/UpsertCard store paths the session engine
// uses, so live play and restored history obey identical invariants.
type SnapshotService struct {
	Store     Store
	BatchSize int
}

func NewSnapshotService(store Store, batchSize int) *SnapshotService {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &SnapshotService{Store: store, BatchSize: batchSize}
}

// Export gathers the exam's full study history keyed by question number.
func (s *SnapshotService) Export(ctx context.Context, examID string, now time.Time) (*Snapshot, error) {
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

	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: now,
		ExamID:     examID,
		Answers:    []SnapshotAnswer{},
		SrsCards:   []SnapshotCard{},
		Bookmarks:  []SnapshotBookmark{},
	}

	answers, err := s.Store.ListAnswers(ctx, examID)
	if err != nil {
		return nil, err
	}
	for _, a := range answers {
		if err := ctx.Err(); err != nil {
			return nil, util.TranslateStorageError(err)
		}
		snap.Answers = append(snap.Answers, SnapshotAnswer{
			QuestionNumber: numberByID[a.QuestionID],
			Selected:       a.Selected,
			Correct:        a.Correct,
			TimeSpentMs:    a.TimeSpentMs,
			AnsweredAt:     a.AnsweredAt,
		})
	}

	cards, err := s.Store.ListCards(ctx, examID)
	if err != nil {
		return nil, err
	}
	for _, c := range cards {
		if err := ctx.Err(); err != nil {
			return nil, util.TranslateStorageError(err)
		}
		snap.SrsCards = append(snap.SrsCards, SnapshotCard{
			QuestionNumber: numberByID[c.QuestionID],
			EaseFactor:     c.EaseFactor,
			IntervalDays:   c.IntervalDays,
			Repetitions:    c.Repetitions,
			NextReview:     c.NextReview,
			LastGrade:      c.LastGrade,
		})
	}

	bookmarks, err := s.Store.ListBookmarks(ctx, examID)
	if err != nil {
		return nil, err
	}
	for _, b := range bookmarks {
		snap.Bookmarks = append(snap.Bookmarks, SnapshotBookmark{
			QuestionNumber: numberByID[b.QuestionID],
			CreatedAt:      b.CreatedAt,
		})
	}

	return snap, nil
}

// Import replays a snapshot onto the target exam. The whole payload is
// validated and resolved against the exam's question numbers before the
// first write; unsupported versions and unresolvable numbers abort with
// nothing persisted. Replay runs in bounded transaction batches. Answers
// are idempotent on (questionNumber, answeredAt); cards are a single
// cursor, so the snapshot's values win; bookmarks are idempotent per
// question.
func (s *SnapshotService) Import(ctx context.Context, examID string, snap *Snapshot, now time.Time) (*ImportResult, error) {
	if !supportedVersion(snap.Version) {
		return nil, fmt.Errorf("%w: version %q", util.ErrUnsupportedFormat, snap.Version)
	}

	if _, err := s.Store.GetExam(ctx, examID); err != nil {
		return nil, err
	}

	questions, err := s.Store.ListQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	idByNumber := make(map[int]string, len(questions))
	for _, q := range questions {
		idByNumber[q.Number] = q.ID
	}

	if err := s.validate(snap, idByNumber); err != nil {
		return nil, err
	}

	result := &ImportResult{}

	if err := s.replayAnswers(ctx, snap.Answers, idByNumber, result); err != nil {
		return nil, err
	}
	if err := s.replayCards(ctx, snap.SrsCards, idByNumber, result); err != nil {
		return nil, err
	}
	if err := s.replayBookmarks(ctx, snap.Bookmarks, idByNumber, result); err != nil {
		return nil, err
	}

	logger.Log.Info("snapshot imported",
		zap.String("examId", examID),
		zap.Int("answersImported", result.AnswersImported),
		zap.Int("answersSkipped", result.AnswersSkipped),
		zap.Int("cardsApplied", result.CardsApplied))

	return result, nil
}

// supportedVersion accepts the current major version only.
func supportedVersion(v string) bool {
	major, _, found := strings.Cut(v, ".")
	if !found {
		return false
	}
	return major == "1"
}

// validate resolves every entry up front so a bad snapshot fails before
// any write. A snapshot exported from a different exam shows up here as an
// unresolvable question number.
func (s *SnapshotService) validate(snap *Snapshot, idByNumber map[int]string) error {
	for _, a := range snap.Answers {
		if _, ok := idByNumber[a.QuestionNumber]; !ok {
			return fmt.Errorf("%w: answer references unknown question number %d", util.ErrValidation, a.QuestionNumber)
		}
		if a.AnsweredAt.IsZero() {
			return fmt.Errorf("%w: answer for question %d has no answeredAt", util.ErrValidation, a.QuestionNumber)
		}
	}
	for _, c := range snap.SrsCards {
		if _, ok := idByNumber[c.QuestionNumber]; !ok {
			return fmt.Errorf("%w: card references unknown question number %d", util.ErrValidation, c.QuestionNumber)
		}
		if c.LastGrade < 0 || c.LastGrade > srs.MaxGrade {
			return fmt.Errorf("%w: card for question %d has grade %d", util.ErrValidation, c.QuestionNumber, c.LastGrade)
		}
		if c.EaseFactor < srs.MinEaseFactor {
			return fmt.Errorf("%w: card for question %d has ease factor %v below %v", util.ErrValidation, c.QuestionNumber, c.EaseFactor, srs.MinEaseFactor)
		}
		if c.Repetitions < 0 || c.IntervalDays < 0 {
			return fmt.Errorf("%w: card for question %d has negative scheduling state", util.ErrValidation, c.QuestionNumber)
		}
	}
	for _, b := range snap.Bookmarks {
		if _, ok := idByNumber[b.QuestionNumber]; !ok {
			return fmt.Errorf("%w: bookmark references unknown question number %d", util.ErrValidation, b.QuestionNumber)
		}
	}
	return nil
}

func (s *SnapshotService) replayAnswers(ctx context.Context, answers []SnapshotAnswer, idByNumber map[int]string, result *ImportResult) error {
	return inBatches(len(answers), s.BatchSize, func(lo, hi int) error {
		return s.Store.WithTransaction(ctx, func(tx Store) error {
			for _, a := range answers[lo:hi] {
				questionID := idByNumber[a.QuestionNumber]

				exists, err := tx.AnswerExists(ctx, questionID, a.AnsweredAt)
				if err != nil {
					return err
				}
				if exists {
					result.AnswersSkipped++
					monitoring.SnapshotEntriesTotal.WithLabelValues("answer", "skipped").Inc()
					continue
				}

				if err := tx.InsertAnswer(ctx, &model.Answer{
					QuestionID:  questionID,
					Selected:    a.Selected,
					Correct:     a.Correct,
					TimeSpentMs: a.TimeSpentMs,
					AnsweredAt:  a.AnsweredAt,
				}); err != nil {
					return err
				}
				result.AnswersImported++
				monitoring.SnapshotEntriesTotal.WithLabelValues("answer", "imported").Inc()
			}
			return nil
		})
	})
}

func (s *SnapshotService) replayCards(ctx context.Context, cards []SnapshotCard, idByNumber map[int]string, result *ImportResult) error {
	return inBatches(len(cards), s.BatchSize, func(lo, hi int) error {
		return s.Store.WithTransaction(ctx, func(tx Store) error {
			for _, c := range cards[lo:hi] {
				questionID := idByNumber[c.QuestionNumber]

				card, err := tx.GetCard(ctx, questionID)
				if errors.Is(err, util.ErrNotFound) {
					card = &model.SrsCard{QuestionID: questionID}
				} else if err != nil {
					return err
				}

				// The card is a current cursor, not a history: the
				// snapshot's values win.
				card.Repetitions = c.Repetitions
				card.EaseFactor = c.EaseFactor
				card.IntervalDays = c.IntervalDays
				card.NextReview = c.NextReview
				card.LastGrade = c.LastGrade

				if err := tx.UpsertCard(ctx, card); err != nil {
					return err
				}
				result.CardsApplied++
				monitoring.SnapshotEntriesTotal.WithLabelValues("card", "applied").Inc()
			}
			return nil
		})
	})
}

func (s *SnapshotService) replayBookmarks(ctx context.Context, bookmarks []SnapshotBookmark, idByNumber map[int]string, result *ImportResult) error {
	return inBatches(len(bookmarks), s.BatchSize, func(lo, hi int) error {
		return s.Store.WithTransaction(ctx, func(tx Store) error {
			for _, b := range bookmarks[lo:hi] {
				questionID := idByNumber[b.QuestionNumber]

				if _, err := tx.GetBookmark(ctx, questionID); err == nil {
					result.BookmarksSkipped++
					continue
				} else if !errors.Is(err, util.ErrNotFound) {
					return err
				}

				bookmark := &model.Bookmark{QuestionID: questionID}
				bookmark.CreatedAt = b.CreatedAt
				if err := tx.InsertBookmark(ctx, bookmark); err != nil {
					return err
				}
				result.BookmarksImported++
			}
			return nil
		})
	})
}

// inBatches runs fn over [0,n) in half-open chunks of size batch.
func inBatches(n, batch int, fn func(lo, hi int) error) error {
	for lo := 0; lo < n; lo += batch {
		hi := lo + batch
		if hi > n {
			hi = n
		}
		if err := fn(lo, hi); err != nil {
			return err
		}
	}
	return nil
}
