package service

import (
	"context"
	"math"
	"sort"
	"time"

	"examdrill_backend/internal/util"
)

// StatsService recomputes exam statistics from the raw Answer/SrsCard rows
// on every call. Nothing is cached or materialized, so the numbers are
// always right after a snapshot import or a cascade delete.
type StatsService struct {
	Store Store
}

func NewStatsService(store Store) *StatsService {
	return &StatsService{Store: store}
}

const unknownSection = "Unknown"

type SectionStats struct {
	SectionID string `json:"sectionId"`
	Section   string `json:"section"`
	Total     int    `json:"total"`
	Correct   int    `json:"correct"`
	Accuracy  int    `json:"accuracy"`
}

type ExamStats struct {
	TotalQuestions int64          `json:"totalQuestions"`
	Answered       int64          `json:"answered"`
	Correct        int64          `json:"correct"`
	Accuracy       float64        `json:"accuracy"`
	DueForReview   int64          `json:"dueForReview"`
	BySection      []SectionStats `json:"bySection"`
}

// ExamStats computes the per-exam rollup. The section scan checks the
// context between iterations so a large history can be abandoned mid-scan.
func (s *StatsService) ExamStats(ctx context.Context, examID string, now time.Time) (*ExamStats, error) {
	if _, err := s.Store.GetExam(ctx, examID); err != nil {
		return nil, err
	}

	totalQuestions, err := s.Store.CountQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}

	answered, correct, err := s.Store.CountAnswers(ctx, examID)
	if err != nil {
		return nil, err
	}

	accuracy := 0.0
	if answered > 0 {
		accuracy = math.Round(float64(correct)/float64(answered)*100*10) / 10
	}

	due, err := s.Store.CountDueCards(ctx, examID, now)
	if err != nil {
		return nil, err
	}

	bySection, err := s.sectionBreakdown(ctx, examID)
	if err != nil {
		return nil, err
	}

	return &ExamStats{
		TotalQuestions: totalQuestions,
		Answered:       answered,
		Correct:        correct,
		Accuracy:       accuracy,
		DueForReview:   due,
		BySection:      bySection,
	}, nil
}

// sectionBreakdown groups distinct questions by (sectionId, section).
// Correct counts distinct questions with at least one correct answer, not
// answer rows, so repeated attempts never double count.
func (s *StatsService) sectionBreakdown(ctx context.Context, examID string) ([]SectionStats, error) {
	questions, err := s.Store.ListQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}

	answers, err := s.Store.ListAnswers(ctx, examID)
	if err != nil {
		return nil, err
	}

	everCorrect := make(map[string]bool)
	for _, a := range answers {
		if err := ctx.Err(); err != nil {
			return nil, util.TranslateStorageError(err)
		}
		if a.Correct {
			everCorrect[a.QuestionID] = true
		}
	}

	type sectionKey struct {
		id   string
		name string
	}
	groups := make(map[sectionKey]*SectionStats)
	order := make([]sectionKey, 0)

	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, util.TranslateStorageError(err)
		}

		key := sectionKey{id: q.Data.SectionID, name: q.Data.Section}
		if key.id == "" {
			key.id = unknownSection
		}
		if key.name == "" {
			key.name = unknownSection
		}

		g, ok := groups[key]
		if !ok {
			g = &SectionStats{SectionID: key.id, Section: key.name}
			groups[key] = g
			order = append(order, key)
		}
		g.Total++
		if everCorrect[q.ID] {
			g.Correct++
		}
	}

	stats := make([]SectionStats, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.Total > 0 {
			g.Accuracy = int(math.Round(float64(g.Correct) / float64(g.Total) * 100))
		}
		stats = append(stats, *g)
	}

	// sectionId ascending, the Unknown bucket last.
	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i].SectionID, stats[j].SectionID
		if a == unknownSection {
			return false
		}
		if b == unknownSection {
			return true
		}
		return a < b
	})

	return stats, nil
}
