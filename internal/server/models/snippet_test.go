package models

import (
	"errors"
	"testing"

	"github.com/logit-team/logit/internal/common"
)

func TestParseSnippetStatus(t *testing.T) {
	tests := []struct {
		tag     string
		want    SnippetStatus
		wantErr bool
	}{
		{"active", StatusActive, false},
		{"ACTIVE", StatusActive, false},
		{"managed", StatusActive, false},
		{"Managed", StatusActive, false},
		{"deleted", StatusDeleted, false},
		{"DELETED", StatusDeleted, false},
		{"", "", true},
		{"archived", "", true},
		{"delete", "", true},
	}

	for _, tc := range tests {
		got, err := ParseSnippetStatus(tc.tag)
		if tc.wantErr {
			if !errors.Is(err, common.ErrUnknownStatus) {
				t.Fatalf("tag %q: want ErrUnknownStatus, got %v", tc.tag, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("tag %q: unexpected error: %v", tc.tag, err)
		}
		if got != tc.want {
			t.Fatalf("tag %q: want %q, got %q", tc.tag, tc.want, got)
		}
	}
}
