package history_test

import (
	"testing"

	"jobdeck/internal/history"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"completed", "in-progress", "failed"}
	for _, s := range valid {
		got, err := history.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_InvalidValue(t *testing.T) {
	_, err := history.ParseStatus("archived")
	if err == nil {
		t.Error("ParseStatus(\"archived\") expected error, got nil")
	}
}

func TestParseStatus_EmptyString(t *testing.T) {
	_, err := history.ParseStatus("")
	if err == nil {
		t.Error("ParseStatus(\"\") expected error, got nil")
	}
}

func TestParseStatus_IsCaseSensitive(t *testing.T) {
	_, err := history.ParseStatus("Completed")
	if err == nil {
		t.Error("ParseStatus(\"Completed\") expected error; status values are lowercase")
	}
}

// ── Record helpers ─────────────────────────────────────────────────────────

func TestRecord_Filters(t *testing.T) {
	rec := history.Record{
		Query:        "data engineer",
		Location:     "remote",
		JobType:      "contract",
		SalaryRange:  "100k+",
		PostedWithin: "30d",
		ResultCount:  9,
	}

	f := rec.Filters()
	if f.Query != rec.Query || f.Location != rec.Location || f.JobType != rec.JobType ||
		f.SalaryRange != rec.SalaryRange || f.PostedWithin != rec.PostedWithin {
		t.Errorf("Filters() dropped fields: %+v", f)
	}
}

func TestNewRecord_StartsInProgress(t *testing.T) {
	rec := history.NewRecord(history.Filters{Query: "sre"}, []string{"urgent"})

	if rec.Status != history.StatusInProgress {
		t.Errorf("NewRecord status = %s, want in-progress", rec.Status)
	}
	if rec.ID != "" {
		t.Error("NewRecord must leave ID assignment to the store")
	}
	if len(rec.Tags) != 1 || rec.Tags[0] != "urgent" {
		t.Errorf("NewRecord tags = %v, want [urgent]", rec.Tags)
	}
}
