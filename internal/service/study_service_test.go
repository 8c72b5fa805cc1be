package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"examdrill_backend/internal/srs"
	"examdrill_backend/internal/util"
	"examdrill_backend/pkg/logger"

	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func TestNextQuestionPrefersDueReviews(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 3)
	svc := NewStudyService(store)

	// Nothing answered yet: the lowest-numbered unseen question comes first.
	resp, err := svc.NextQuestion(ctx, exam.ID, testNow)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if resp.Done || resp.Mode != "new" || resp.Question.Number != 1 {
		t.Fatalf("expected new question 1, got %+v", resp)
	}

	// Answer question 2 yesterday so its card is overdue; it must preempt
	// the unseen questions.
	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{
		Number:   2,
		Selected: []string{"a"},
	}, testNow.AddDate(0, 0, -2)); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	resp, err = svc.NextQuestion(ctx, exam.ID, testNow)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if resp.Mode != "review" || resp.Question.Number != 2 {
		t.Fatalf("expected review of question 2, got %+v", resp)
	}
}

func TestNextQuestionOldestDueFirst(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 3)
	svc := NewStudyService(store)

	// Question 3 reviewed earlier than question 1, so its card has the
	// older due date and must be served first.
	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{Number: 3, Selected: []string{"a"}}, testNow.AddDate(0, 0, -5)); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{Number: 1, Selected: []string{"a"}}, testNow.AddDate(0, 0, -3)); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	resp, err := svc.NextQuestion(ctx, exam.ID, testNow)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if resp.Mode != "review" || resp.Question.Number != 3 {
		t.Fatalf("expected review of question 3, got %+v", resp)
	}
}

func TestNextQuestionDoneWhenNothingLeft(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	svc := NewStudyService(store)

	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{Number: 1, Selected: []string{"a"}}, testNow); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	// The only question was just answered; its review is a day away.
	resp, err := svc.NextQuestion(ctx, exam.ID, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if !resp.Done {
		t.Fatalf("expected done, got %+v", resp)
	}
}

func TestNextQuestionUnknownExam(t *testing.T) {
	svc := NewStudyService(newFakeStore())
	if _, err := svc.NextQuestion(context.Background(), "missing", testNow); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitAnswerCorrect(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	svc := NewStudyService(store)

	result, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{
		Number:      1,
		Selected:    []string{"a"},
		TimeSpentMs: 4200,
	}, testNow)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}

	if !result.Correct || result.Grade != 5 {
		t.Fatalf("expected correct grade 5, got %+v", result)
	}
	if result.Card.Repetitions != 1 || result.Card.IntervalDays != 1 {
		t.Fatalf("unexpected card after first pass: %+v", result.Card)
	}
	if got, want := result.Card.EaseFactor, 2.6; got != want {
		t.Fatalf("ease factor = %v, want %v", got, want)
	}
	if !result.Card.NextReview.Equal(testNow.AddDate(0, 0, 1)) {
		t.Fatalf("next review = %v, want %v", result.Card.NextReview, testNow.AddDate(0, 0, 1))
	}

	answers, _ := store.ListAnswers(ctx, exam.ID)
	if len(answers) != 1 || !answers[0].Correct || answers[0].TimeSpentMs != 4200 {
		t.Fatalf("unexpected answer history: %+v", answers)
	}
}

func TestSubmitAnswerOrderInsensitive(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	e := seedExam(f, 1)
	// Make question 1 multi-answer.
	q, _ := f.GetQuestion(ctx, e.ID, 1)
	q.Data.Correct = []string{"a", "c"}

	svc := NewStudyService(f)
	result, err := svc.SubmitAnswer(ctx, e.ID, SubmitAnswerRequest{
		Number:   1,
		Selected: []string{"c", "a"},
	}, testNow)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !result.Correct {
		t.Fatal("selection order must not matter")
	}

	// Superset of the correct keys is wrong.
	result, err = svc.SubmitAnswer(ctx, e.ID, SubmitAnswerRequest{
		Number:   1,
		Selected: []string{"a", "c", "b"},
	}, testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.Correct {
		t.Fatal("superset selection must be graded wrong")
	}
}

func TestSubmitAnswerRejectsUnknownOption(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	svc := NewStudyService(store)

	_, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{
		Number:   1,
		Selected: []string{"z"},
	}, testNow)
	if !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	answers, _ := store.ListAnswers(ctx, exam.ID)
	if len(answers) != 0 {
		t.Fatalf("rejected submission must not be recorded, got %d answers", len(answers))
	}
}

func TestSubmitAnswerGradeOverride(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	svc := NewStudyService(store)

	grade := 3
	result, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{
		Number:   1,
		Selected: []string{"a"},
		Grade:    &grade,
	}, testNow)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.Grade != 3 || result.Card.LastGrade != 3 {
		t.Fatalf("override grade not applied: %+v", result)
	}
	// Grade 3 still passes.
	if result.Card.Repetitions != 1 {
		t.Fatalf("grade 3 must pass, card %+v", result.Card)
	}

	bad := 6
	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{
		Number:   1,
		Selected: []string{"a"},
		Grade:    &bad,
	}, testNow.Add(time.Minute)); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected ErrValidation for grade 6, got %v", err)
	}
}

func TestSubmitAnswerFailureResetsCard(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	svc := NewStudyService(store)

	// Build up the card with two passes, then fail it.
	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{Number: 1, Selected: []string{"a"}}, testNow.AddDate(0, 0, -10)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{Number: 1, Selected: []string{"a"}}, testNow.AddDate(0, 0, -8)); err != nil {
		t.Fatal(err)
	}

	result, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{
		Number:   1,
		Selected: []string{"b"},
	}, testNow)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.Correct {
		t.Fatal("wrong selection graded correct")
	}
	if result.Card.Repetitions != 0 || result.Card.IntervalDays != 1 {
		t.Fatalf("fail must reset repetitions and interval, got %+v", result.Card)
	}
	if !result.Card.NextReview.Equal(testNow.AddDate(0, 0, 1)) {
		t.Fatalf("failed card must come back tomorrow, got %v", result.Card.NextReview)
	}
}

func TestSubmitAnswerRetriesOnceOnConflict(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	svc := NewStudyService(store)

	store.failUpserts = 1
	result, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{
		Number:   1,
		Selected: []string{"a"},
	}, testNow)
	if err != nil {
		t.Fatalf("one lost race must be retried, got %v", err)
	}
	if result.Card.Repetitions != 1 {
		t.Fatalf("retry produced wrong card: %+v", result.Card)
	}

	answers, _ := store.ListAnswers(ctx, exam.ID)
	if len(answers) != 1 {
		t.Fatalf("rolled-back attempt leaked an answer, got %d rows", len(answers))
	}

	// Two consecutive losses surface the conflict.
	store.failUpserts = 2
	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{
		Number:   1,
		Selected: []string{"a"},
	}, testNow.Add(time.Minute)); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("expected ErrConflict after second loss, got %v", err)
	}
}

func TestSubmitAnswerLazyCardInit(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 2)
	svc := NewStudyService(store)

	if len(store.cards) != 0 {
		t.Fatal("cards must not exist before the first answer")
	}

	if _, err := svc.SubmitAnswer(ctx, exam.ID, SubmitAnswerRequest{Number: 2, Selected: []string{"b"}}, testNow); err != nil {
		t.Fatal(err)
	}

	q, _ := store.GetQuestion(ctx, exam.ID, 2)
	card, err := store.GetCard(ctx, q.ID)
	if err != nil {
		t.Fatalf("card must be created on first answer: %v", err)
	}
	// A failed first answer initializes from the default ease factor and
	// keeps it unchanged.
	if card.EaseFactor != srs.InitialEaseFactor {
		t.Fatalf("ease factor = %v, want %v", card.EaseFactor, srs.InitialEaseFactor)
	}
}

func TestBookmarks(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 3)
	svc := NewStudyService(store)

	if err := svc.SetBookmark(ctx, exam.ID, 2); err != nil {
		t.Fatalf("SetBookmark: %v", err)
	}
	// Setting it again is a no-op, not a conflict.
	if err := svc.SetBookmark(ctx, exam.ID, 2); err != nil {
		t.Fatalf("repeated SetBookmark: %v", err)
	}

	views, err := svc.ListBookmarks(ctx, exam.ID)
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if len(views) != 1 || views[0].QuestionNumber != 2 {
		t.Fatalf("unexpected bookmarks: %+v", views)
	}

	if err := svc.RemoveBookmark(ctx, exam.ID, 2); err != nil {
		t.Fatalf("RemoveBookmark: %v", err)
	}
	// Removing a missing bookmark is also a no-op.
	if err := svc.RemoveBookmark(ctx, exam.ID, 2); err != nil {
		t.Fatalf("RemoveBookmark on missing: %v", err)
	}

	if err := svc.SetBookmark(ctx, exam.ID, 99); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown question, got %v", err)
	}
}
