package models

import (
	"reflect"
	"testing"
	"time"
)

func TestValidCategory(t *testing.T) {
	t.Parallel()

	for _, c := range Categories() {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false, want true", c)
		}
	}
	for _, c := range []Category{"", "work", "技术", "IT"} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true, want false", c)
		}
	}
}

func TestTagsFromAnalysis(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	analysis := &AIAnalysis{
		Topic:    "季度预算",
		People:   []string{"张三", "李四"},
		Category: CategoryFinance,
		Summary:  "预算讨论",
	}

	got := TagsFromAnalysis(analysis, now)
	want := []Tag{
		{Key: TagKeyDate, Value: "2026-03-14"},
		{Key: TagKeyTopic, Value: "季度预算"},
		{Key: TagKeyCategory, Value: "财务"},
		{Key: TagKeyPeople, Value: "张三"},
		{Key: TagKeyPeople, Value: "李四"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TagsFromAnalysis() = %v, want %v", got, want)
	}
}

func TestTagsFromAnalysisNoPeople(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.Local)
	got := TagsFromAnalysis(&AIAnalysis{Topic: "随笔", Category: CategoryOther}, now)
	if len(got) != 3 {
		t.Fatalf("expected 3 tags, got %d: %v", len(got), got)
	}
	if got[0].Value != "2026-01-02" {
		t.Errorf("date tag = %q, want 2026-01-02", got[0].Value)
	}
}

func TestValidDocumentAction(t *testing.T) {
	t.Parallel()

	valid := []DocumentAction{ActionTranslate, ActionProofread, ActionFormat, ActionMindMap}
	for _, a := range valid {
		if !ValidDocumentAction(a) {
			t.Errorf("ValidDocumentAction(%q) = false, want true", a)
		}
	}
	if ValidDocumentAction("summarize") {
		t.Error("ValidDocumentAction(summarize) = true, want false")
	}
}
