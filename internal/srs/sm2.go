// Package srs implements the SM-2 spaced-repetition scheduling algorithm.
// It is pure: no storage, no clock of its own, no shared state. The caller
// supplies the current card state and "now" and gets the next state back.
package srs

import (
	"errors"
	"math"
	"time"
)

const (
	// InitialEaseFactor is the ease factor a card starts with.
	InitialEaseFactor = 2.5
	// MinEaseFactor is the SM-2 floor; the ease factor never drops below it.
	MinEaseFactor = 1.3
	// PassThreshold is the lowest grade counted as a successful recall.
	// Grade 3 passes, grade 2 fails; the boundary is exact.
	PassThreshold = 3
	// MaxGrade is the top of the 0-5 recall quality scale.
	MaxGrade = 5
)

// ErrInvalidGrade is returned when the grade is outside [0, 5].
var ErrInvalidGrade = errors.New("grade must be between 0 and 5")

// CardState is the scheduling state consumed by Schedule.
type CardState struct {
	Repetitions  int
	EaseFactor   float64
	IntervalDays int
}

// NewCardState returns the state of a card that has never been reviewed.
func NewCardState() CardState {
	return CardState{Repetitions: 0, EaseFactor: InitialEaseFactor, IntervalDays: 0}
}

// Scheduled is the result of grading a card.
type Scheduled struct {
	Repetitions  int
	EaseFactor   float64
	IntervalDays int
	NextReview   time.Time
	LastGrade    int
}

// Schedule applies one SM-2 review to current and returns the next state.
//
// The ease factor is recomputed for every grade, clamped to MinEaseFactor,
// and kept on failure: only repetitions and interval reset when recall fails.
// Successful recalls follow the 1, 6, round(interval * ef') progression.
func Schedule(current CardState, grade int, now time.Time) (Scheduled, error) {
	if grade < 0 || grade > MaxGrade {
		return Scheduled{}, ErrInvalidGrade
	}

	q := float64(grade)
	ef := current.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}

	next := Scheduled{EaseFactor: ef, LastGrade: grade}

	if grade < PassThreshold {
		next.Repetitions = 0
		next.IntervalDays = 1
	} else {
		next.Repetitions = current.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = 1
		case 2:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(current.IntervalDays) * ef))
		}
	}

	next.NextReview = now.AddDate(0, 0, next.IntervalDays)
	return next, nil
}

// Due reports whether a card with the given next review time is due at now.
func Due(nextReview, now time.Time) bool {
	return !nextReview.After(now)
}
