package util

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestTranslateStorageError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, ErrConflict},
		{"deadline exceeded", context.DeadlineExceeded, ErrStorageUnavailable},
		{"canceled", context.Canceled, ErrStorageUnavailable},
		{"wrapped not found", fmt.Errorf("loading exam: %w", gorm.ErrRecordNotFound), ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TranslateStorageError(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTranslateStorageErrorKeepsUnknownErrors(t *testing.T) {
	boom := errors.New("boom")
	if got := TranslateStorageError(boom); !errors.Is(got, boom) {
		t.Fatalf("unknown error rewritten: %v", got)
	}
}
