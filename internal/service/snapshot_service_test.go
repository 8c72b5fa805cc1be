package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"examdrill_backend/internal/util"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	source := seedExam(store, 5)
	study := NewStudyService(store)
	stats := NewStatsService(store)
	snapshots := NewSnapshotService(store, 2)

	answerQuestion(t, study, source.ID, 1, true, testNow.Add(-3*time.Hour))
	answerQuestion(t, study, source.ID, 2, false, testNow.Add(-2*time.Hour))
	answerQuestion(t, study, source.ID, 2, true, testNow.Add(-time.Hour))
	if err := study.SetBookmark(ctx, source.ID, 3); err != nil {
		t.Fatal(err)
	}

	snap, err := snapshots.Export(ctx, source.ID, testNow)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if snap.Version != SnapshotVersion || snap.ExamID != source.ID {
		t.Fatalf("snapshot header = %q/%q", snap.Version, snap.ExamID)
	}
	if len(snap.Answers) != 3 || len(snap.SrsCards) != 2 || len(snap.Bookmarks) != 1 {
		t.Fatalf("snapshot entries = %d/%d/%d, want 3/2/1", len(snap.Answers), len(snap.SrsCards), len(snap.Bookmarks))
	}

	// Replay onto a fresh exam with the same question bank, as if the
	// database had been wiped and re-imported.
	target := seedExam(store, 5)
	result, err := snapshots.Import(ctx, target.ID, snap, testNow)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.AnswersImported != 3 || result.CardsApplied != 2 || result.BookmarksImported != 1 {
		t.Fatalf("unexpected import result: %+v", result)
	}

	sourceStats, err := stats.ExamStats(ctx, source.ID, testNow)
	if err != nil {
		t.Fatal(err)
	}
	targetStats, err := stats.ExamStats(ctx, target.ID, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sourceStats, targetStats) {
		t.Fatalf("stats diverge after round trip:\nsource %+v\ntarget %+v", sourceStats, targetStats)
	}

	sourceCards, _ := store.ListCards(ctx, source.ID)
	targetCards, _ := store.ListCards(ctx, target.ID)
	for i := range sourceCards {
		if sourceCards[i].Repetitions != targetCards[i].Repetitions ||
			sourceCards[i].EaseFactor != targetCards[i].EaseFactor ||
			sourceCards[i].IntervalDays != targetCards[i].IntervalDays ||
			!sourceCards[i].NextReview.Equal(targetCards[i].NextReview) {
			t.Fatalf("card %d diverges:\nsource %+v\ntarget %+v", i, sourceCards[i], targetCards[i])
		}
	}
}

func TestSnapshotImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 3)
	study := NewStudyService(store)
	stats := NewStatsService(store)
	snapshots := NewSnapshotService(store, 200)

	answerQuestion(t, study, exam.ID, 1, true, testNow.Add(-2*time.Hour))
	answerQuestion(t, study, exam.ID, 2, false, testNow.Add(-time.Hour))
	if err := study.SetBookmark(ctx, exam.ID, 1); err != nil {
		t.Fatal(err)
	}

	snap, err := snapshots.Export(ctx, exam.ID, testNow)
	if err != nil {
		t.Fatal(err)
	}

	before, err := stats.ExamStats(ctx, exam.ID, testNow)
	if err != nil {
		t.Fatal(err)
	}

	// Importing an exam's own snapshot back into it must change nothing.
	result, err := snapshots.Import(ctx, exam.ID, snap, testNow)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.AnswersImported != 0 || result.AnswersSkipped != 2 {
		t.Fatalf("re-import must skip existing answers, got %+v", result)
	}
	if result.BookmarksImported != 0 || result.BookmarksSkipped != 1 {
		t.Fatalf("re-import must skip existing bookmarks, got %+v", result)
	}

	after, err := stats.ExamStats(ctx, exam.ID, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("stats changed on re-import:\nbefore %+v\nafter %+v", before, after)
	}

	// A second replay is equally inert.
	if _, err := snapshots.Import(ctx, exam.ID, snap, testNow); err != nil {
		t.Fatalf("second re-import: %v", err)
	}
	answered, _, _ := store.CountAnswers(ctx, exam.ID)
	if answered != 2 {
		t.Fatalf("answer count = %d after double import, want 2", answered)
	}
}

func TestSnapshotImportCardsLastWriterWins(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	study := NewStudyService(store)
	snapshots := NewSnapshotService(store, 200)

	answerQuestion(t, study, exam.ID, 1, true, testNow.Add(-time.Hour))
	snap, err := snapshots.Export(ctx, exam.ID, testNow)
	if err != nil {
		t.Fatal(err)
	}

	// Keep studying after the export; the local card moves ahead.
	answerQuestion(t, study, exam.ID, 1, true, testNow)

	if _, err := snapshots.Import(ctx, exam.ID, snap, testNow); err != nil {
		t.Fatalf("Import: %v", err)
	}

	q, _ := store.GetQuestion(ctx, exam.ID, 1)
	card, err := store.GetCard(ctx, q.ID)
	if err != nil {
		t.Fatal(err)
	}
	// The imported snapshot's card state overwrites the newer local one.
	if card.Repetitions != snap.SrsCards[0].Repetitions {
		t.Fatalf("card repetitions = %d, want snapshot value %d", card.Repetitions, snap.SrsCards[0].Repetitions)
	}
}

func TestSnapshotImportRejectsUnsupportedVersion(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	snapshots := NewSnapshotService(store, 200)

	for _, version := range []string{"2.0.0", "0.9.1", "garbage"} {
		snap := &Snapshot{Version: version}
		if _, err := snapshots.Import(ctx, exam.ID, snap, testNow); !errors.Is(err, util.ErrUnsupportedFormat) {
			t.Errorf("version %q: expected ErrUnsupportedFormat, got %v", version, err)
		}
	}

	// Minor and patch bumps within the major version are accepted.
	snap := &Snapshot{Version: "1.4.2"}
	if _, err := snapshots.Import(ctx, exam.ID, snap, testNow); err != nil {
		t.Errorf("version 1.4.2 must be accepted, got %v", err)
	}
}

func TestSnapshotImportRejectsUnknownQuestionNumbers(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 2)
	snapshots := NewSnapshotService(store, 200)

	snap := &Snapshot{
		Version: SnapshotVersion,
		Answers: []SnapshotAnswer{
			{QuestionNumber: 1, Selected: []string{"a"}, Correct: true, AnsweredAt: testNow},
			{QuestionNumber: 42, Selected: []string{"a"}, Correct: true, AnsweredAt: testNow},
		},
	}

	if _, err := snapshots.Import(ctx, exam.ID, snap, testNow); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// Up-front validation means the resolvable entry was not written either.
	answered, _, _ := store.CountAnswers(ctx, exam.ID)
	if answered != 0 {
		t.Fatalf("rejected import must write nothing, got %d answers", answered)
	}
}

func TestSnapshotImportValidatesCardState(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	exam := seedExam(store, 1)
	snapshots := NewSnapshotService(store, 200)

	cases := []SnapshotCard{
		{QuestionNumber: 1, EaseFactor: 1.1, LastGrade: 4},
		{QuestionNumber: 1, EaseFactor: 2.5, LastGrade: 7},
		{QuestionNumber: 1, EaseFactor: 2.5, LastGrade: 4, Repetitions: -1},
	}
	for i, c := range cases {
		snap := &Snapshot{Version: SnapshotVersion, SrsCards: []SnapshotCard{c}}
		if _, err := snapshots.Import(ctx, exam.ID, snap, testNow); !errors.Is(err, util.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestSnapshotExportUnknownExam(t *testing.T) {
	snapshots := NewSnapshotService(newFakeStore(), 200)
	if _, err := snapshots.Export(context.Background(), "missing", testNow); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
