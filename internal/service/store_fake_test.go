package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"examdrill_backend/internal/model"
	"examdrill_backend/internal/util"
)

// fakeStore is an in-memory Store used by the service tests. It mirrors
// the database semantics the services rely on: unique indexes surface as
// ErrConflict, WithTransaction rolls everything back when fn fails, and
// UpsertCard can be primed to lose an optimistic-lock race.
type fakeStore struct {
	exams     map[string]*model.Exam
	examOrder []string
	questions []*model.Question
	answers   []*model.Answer
	cards     map[string]*model.SrsCard
	bookmarks map[string]*model.Bookmark

	nextID uint

	// failUpserts makes the next N UpsertCard calls fail with ErrConflict.
	failUpserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		exams:     make(map[string]*model.Exam),
		cards:     make(map[string]*model.SrsCard),
		bookmarks: make(map[string]*model.Bookmark),
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateExam(ctx context.Context, exam *model.Exam) error {
	if exam.ID == "" {
		exam.ID = fmt.Sprintf("exam-%d", f.id())
	}
	exam.CreatedAt = time.Now()
	f.exams[exam.ID] = exam
	f.examOrder = append(f.examOrder, exam.ID)
	return nil
}

func (f *fakeStore) GetExam(ctx context.Context, id string) (*model.Exam, error) {
	exam, ok := f.exams[id]
	if !ok {
		return nil, util.ErrNotFound
	}
	return exam, nil
}

func (f *fakeStore) ListExams(ctx context.Context) ([]model.Exam, error) {
	out := make([]model.Exam, 0, len(f.examOrder))
	for i := len(f.examOrder) - 1; i >= 0; i-- {
		out = append(out, *f.exams[f.examOrder[i]])
	}
	return out, nil
}

func (f *fakeStore) UpdateExam(ctx context.Context, exam *model.Exam) error {
	if _, ok := f.exams[exam.ID]; !ok {
		return util.ErrNotFound
	}
	f.exams[exam.ID] = exam
	return nil
}

func (f *fakeStore) DeleteExamCascade(ctx context.Context, examID string) (DeletedCounts, error) {
	if _, ok := f.exams[examID]; !ok {
		return DeletedCounts{}, util.ErrNotFound
	}

	var counts DeletedCounts
	questionIDs := make(map[string]struct{})
	kept := f.questions[:0]
	for _, q := range f.questions {
		if q.ExamID == examID {
			questionIDs[q.ID] = struct{}{}
			counts.Questions++
			continue
		}
		kept = append(kept, q)
	}
	f.questions = kept

	keptAnswers := f.answers[:0]
	for _, a := range f.answers {
		if _, gone := questionIDs[a.QuestionID]; gone {
			counts.Answers++
			continue
		}
		keptAnswers = append(keptAnswers, a)
	}
	f.answers = keptAnswers

	for qid := range questionIDs {
		if _, ok := f.cards[qid]; ok {
			delete(f.cards, qid)
			counts.SrsCards++
		}
		if _, ok := f.bookmarks[qid]; ok {
			delete(f.bookmarks, qid)
			counts.Bookmarks++
		}
	}

	delete(f.exams, examID)
	for i, id := range f.examOrder {
		if id == examID {
			f.examOrder = append(f.examOrder[:i], f.examOrder[i+1:]...)
			break
		}
	}
	return counts, nil
}

func (f *fakeStore) CreateQuestions(ctx context.Context, questions []model.Question) error {
	for i := range questions {
		q := questions[i]
		for _, existing := range f.questions {
			if existing.ExamID == q.ExamID && existing.Number == q.Number {
				return util.ErrConflict
			}
		}
		if q.ID == "" {
			q.ID = fmt.Sprintf("q-%d", f.id())
		}
		f.questions = append(f.questions, &q)
	}
	return nil
}

func (f *fakeStore) GetQuestion(ctx context.Context, examID string, number int) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ExamID == examID && q.Number == number {
			return q, nil
		}
	}
	return nil, util.ErrNotFound
}

func (f *fakeStore) GetQuestionByID(ctx context.Context, id string) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, util.ErrNotFound
}

func (f *fakeStore) ListQuestions(ctx context.Context, examID string) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.ExamID == examID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeStore) CountQuestions(ctx context.Context, examID string) (int64, error) {
	var n int64
	for _, q := range f.questions {
		if q.ExamID == examID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) MaxQuestionNumber(ctx context.Context, examID string) (int, error) {
	max := 0
	for _, q := range f.questions {
		if q.ExamID == examID && q.Number > max {
			max = q.Number
		}
	}
	return max, nil
}

func (f *fakeStore) FirstUnseenQuestion(ctx context.Context, examID string) (*model.Question, error) {
	var best *model.Question
	for _, q := range f.questions {
		if q.ExamID != examID {
			continue
		}
		if _, seen := f.cards[q.ID]; seen {
			continue
		}
		if best == nil || q.Number < best.Number {
			best = q
		}
	}
	return best, nil
}

func (f *fakeStore) SetQuestionImage(ctx context.Context, questionID, imageURL string) error {
	q, err := f.GetQuestionByID(ctx, questionID)
	if err != nil {
		return err
	}
	q.Data.ImageURL = imageURL
	return nil
}

func (f *fakeStore) GetCard(ctx context.Context, questionID string) (*model.SrsCard, error) {
	card, ok := f.cards[questionID]
	if !ok {
		return nil, util.ErrNotFound
	}
	copied := *card
	return &copied, nil
}

func (f *fakeStore) UpsertCard(ctx context.Context, card *model.SrsCard) error {
	if f.failUpserts > 0 {
		f.failUpserts--
		return util.ErrConflict
	}
	if card.ID == 0 {
		if _, exists := f.cards[card.QuestionID]; exists {
			return util.ErrConflict
		}
		card.ID = f.id()
	}
	copied := *card
	f.cards[card.QuestionID] = &copied
	return nil
}

func (f *fakeStore) ListCards(ctx context.Context, examID string) ([]model.SrsCard, error) {
	questions, _ := f.ListQuestions(ctx, examID)
	var out []model.SrsCard
	for _, q := range questions {
		if card, ok := f.cards[q.ID]; ok {
			out = append(out, *card)
		}
	}
	return out, nil
}

func (f *fakeStore) NextDueCard(ctx context.Context, examID string, now time.Time) (*model.SrsCard, error) {
	var best *model.SrsCard
	for _, card := range f.cards {
		q, err := f.GetQuestionByID(ctx, card.QuestionID)
		if err != nil || q.ExamID != examID {
			continue
		}
		if card.NextReview.After(now) {
			continue
		}
		if best == nil || card.NextReview.Before(best.NextReview) {
			best = card
		}
	}
	if best == nil {
		return nil, nil
	}
	copied := *best
	return &copied, nil
}

func (f *fakeStore) CountDueCards(ctx context.Context, examID string, now time.Time) (int64, error) {
	var n int64
	for _, card := range f.cards {
		q, err := f.GetQuestionByID(ctx, card.QuestionID)
		if err != nil || q.ExamID != examID {
			continue
		}
		if !card.NextReview.After(now) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) InsertAnswer(ctx context.Context, answer *model.Answer) error {
	for _, a := range f.answers {
		if a.QuestionID == answer.QuestionID && a.AnsweredAt.Equal(answer.AnsweredAt) {
			return util.ErrConflict
		}
	}
	answer.ID = f.id()
	copied := *answer
	f.answers = append(f.answers, &copied)
	return nil
}

func (f *fakeStore) AnswerExists(ctx context.Context, questionID string, answeredAt time.Time) (bool, error) {
	for _, a := range f.answers {
		if a.QuestionID == questionID && a.AnsweredAt.Equal(answeredAt) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListAnswers(ctx context.Context, examID string) ([]model.Answer, error) {
	var out []model.Answer
	for _, a := range f.answers {
		q, err := f.GetQuestionByID(ctx, a.QuestionID)
		if err != nil || q.ExamID != examID {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AnsweredAt.Before(out[j].AnsweredAt) })
	return out, nil
}

func (f *fakeStore) CountAnswers(ctx context.Context, examID string) (int64, int64, error) {
	answers, err := f.ListAnswers(ctx, examID)
	if err != nil {
		return 0, 0, err
	}
	var answered, correct int64
	for _, a := range answers {
		answered++
		if a.Correct {
			correct++
		}
	}
	return answered, correct, nil
}

func (f *fakeStore) InsertBookmark(ctx context.Context, bookmark *model.Bookmark) error {
	if _, exists := f.bookmarks[bookmark.QuestionID]; exists {
		return util.ErrConflict
	}
	bookmark.ID = f.id()
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = time.Now()
	}
	copied := *bookmark
	f.bookmarks[bookmark.QuestionID] = &copied
	return nil
}

func (f *fakeStore) DeleteBookmark(ctx context.Context, questionID string) error {
	delete(f.bookmarks, questionID)
	return nil
}

func (f *fakeStore) GetBookmark(ctx context.Context, questionID string) (*model.Bookmark, error) {
	b, ok := f.bookmarks[questionID]
	if !ok {
		return nil, util.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) ListBookmarks(ctx context.Context, examID string) ([]model.Bookmark, error) {
	var out []model.Bookmark
	for _, b := range f.bookmarks {
		q, err := f.GetQuestionByID(ctx, b.QuestionID)
		if err != nil || q.ExamID != examID {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// WithTransaction snapshots the state and restores it when fn fails, so a
// partially applied unit of work never leaks into later assertions.
func (f *fakeStore) WithTransaction(ctx context.Context, fn func(Store) error) error {
	saved := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(saved)
		return err
	}
	return nil
}

type fakeState struct {
	answers   []*model.Answer
	cards     map[string]*model.SrsCard
	bookmarks map[string]*model.Bookmark
	nextID    uint
}

func (f *fakeStore) snapshot() fakeState {
	st := fakeState{
		answers:   make([]*model.Answer, len(f.answers)),
		cards:     make(map[string]*model.SrsCard, len(f.cards)),
		bookmarks: make(map[string]*model.Bookmark, len(f.bookmarks)),
		nextID:    f.nextID,
	}
	for i, a := range f.answers {
		copied := *a
		st.answers[i] = &copied
	}
	for k, c := range f.cards {
		copied := *c
		st.cards[k] = &copied
	}
	for k, b := range f.bookmarks {
		copied := *b
		st.bookmarks[k] = &copied
	}
	return st
}

func (f *fakeStore) restore(st fakeState) {
	f.answers = st.answers
	f.cards = st.cards
	f.bookmarks = st.bookmarks
	f.nextID = st.nextID
}

var _ Store = (*fakeStore)(nil)

// seedExam creates an exam with n questions numbered 1..n, all sharing the
// same A..D option set with "a" correct.
func seedExam(f *fakeStore, n int) *model.Exam {
	exam := &model.Exam{Name: "Sample Exam"}
	_ = f.CreateExam(context.Background(), exam)

	questions := make([]model.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, model.Question{
			ExamID: exam.ID,
			Number: i,
			Data: model.QuestionData{
				Text: fmt.Sprintf("Question %d", i),
				Options: map[string]string{
					"a": "first", "b": "second", "c": "third", "d": "fourth",
				},
				Correct: []string{"a"},
			},
		})
	}
	_ = f.CreateQuestions(context.Background(), questions)
	return exam
}
