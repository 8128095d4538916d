package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/nlquery/internal/domain"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		limit     int
		wantText  string
		wantLimit int
		wantErr   bool
	}{
		{"valid", "TY students", 10, "TY students", 10, false},
		{"trimmed", "   cse toppers  ", 0, "cse toppers", 50, false},
		{"zero limit defaults", "abc", 0, "abc", 50, false},
		{"too short after trim", "  ab ", 10, "", 0, true},
		{"too long", strings.Repeat("a", MaxTextLength+1), 10, "", 0, true},
		{"max length", strings.Repeat("é", MaxTextLength), 10, strings.Repeat("é", MaxTextLength), 10, false},
		{"limit too high", "abc", 201, "", 0, true},
		{"negative limit", "abc", -1, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRequest(tt.text, tt.limit)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Text() != tt.wantText {
				t.Errorf("Text() = %q, want %q", r.Text(), tt.wantText)
			}
			if r.Limit() != tt.wantLimit {
				t.Errorf("Limit() = %d, want %d", r.Limit(), tt.wantLimit)
			}
		})
	}
}

func TestRequestWithLimit(t *testing.T) {
	zero, five, over := 0, 5, MaxLimit+1

	r, err := RequestWithLimit("all students", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("absent limit = %d, want %d", r.Limit(), DefaultLimit)
	}

	r, err = RequestWithLimit("all students", &five)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != 5 {
		t.Errorf("Limit() = %d, want 5", r.Limit())
	}

	for _, bad := range []*int{&zero, &over} {
		if _, err := RequestWithLimit("all students", bad); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("limit %d: err = %v, want ErrInvalidInput", *bad, err)
		}
	}
}
