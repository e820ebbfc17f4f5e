package assignment

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusDraft, StatusActive, true},
		{StatusActive, StatusArchived, true},
		{StatusDraft, StatusArchived, false},
		{StatusActive, StatusDraft, false},
		{StatusArchived, StatusActive, false},
		{StatusArchived, StatusDraft, false},
		{StatusDraft, StatusDraft, false},
		{StatusActive, StatusActive, false},
		{"bogus", StatusActive, false},
		{StatusDraft, "bogus", false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusActive, StatusArchived} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "deleted", "Active"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}

func TestClassifySubmission(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	cases := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"no due date", nil, SubmissionSubmitted},
		{"before due", &after, SubmissionSubmitted},
		{"past due", &before, SubmissionLate},
		{"exactly at due", &now, SubmissionSubmitted},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifySubmission(now, c.due); got != c.want {
				t.Errorf("ClassifySubmission = %q, want %q", got, c.want)
			}
		})
	}
}

func TestGradable(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{SubmissionPending, false},
		{SubmissionSubmitted, true},
		{SubmissionLate, true},
		{SubmissionGraded, true},
		{"", false},
	}
	for _, c := range cases {
		s := &Submission{Status: c.status}
		if got := s.Gradable(); got != c.want {
			t.Errorf("Gradable(%q) = %v, want %v", c.status, got, c.want)
		}
	}
}
