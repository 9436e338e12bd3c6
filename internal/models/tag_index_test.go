package models

import (
	"reflect"
	"testing"
)

func note(id int64, content string, values ...string) *Note {
	tags := make([]Tag, len(values))
	for i, v := range values {
		tags[i] = Tag{Key: TagKeyTopic, Value: v}
	}
	return &Note{ID: id, Content: content, Tags: tags}
}

func TestBuildTagIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		notes []*Note
		want  []TagCount
	}{
		{
			name:  "empty snapshot",
			notes: nil,
			want:  []TagCount{},
		},
		{
			name: "counts notes per value descending",
			notes: []*Note{
				note(1, "a", "工作", "Go"),
				note(2, "b", "工作"),
				note(3, "c", "Go", "工作"),
			},
			want: []TagCount{
				{Value: "工作", Count: 3},
				{Value: "Go", Count: 2},
			},
		},
		{
			name: "value repeated within one note counts once",
			notes: []*Note{
				note(1, "a", "读书", "读书"),
				note(2, "b", "读书"),
			},
			want: []TagCount{
				{Value: "读书", Count: 2},
			},
		},
		{
			name: "ties keep first-encounter order",
			notes: []*Note{
				note(1, "a", "alpha", "beta"),
				note(2, "b", "beta", "alpha"),
			},
			want: []TagCount{
				{Value: "alpha", Count: 2},
				{Value: "beta", Count: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := BuildTagIndex(tt.notes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildTagIndex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNotes(t *testing.T) {
	t.Parallel()

	notes := []*Note{
		note(1, "a", "工作", "Go"),
		note(2, "b", "工作"),
		note(3, "c", "Go"),
	}

	tests := []struct {
		name     string
		selected []string
		wantIDs  []int64
	}{
		{
			name:     "empty selection returns everything",
			selected: nil,
			wantIDs:  []int64{1, 2, 3},
		},
		{
			name:     "single value",
			selected: []string{"Go"},
			wantIDs:  []int64{1, 3},
		},
		{
			name:     "AND across values",
			selected: []string{"工作", "Go"},
			wantIDs:  []int64{1},
		},
		{
			name:     "unknown value matches nothing",
			selected: []string{"missing"},
			wantIDs:  []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FilterNotes(notes, tt.selected)
			ids := make([]int64, 0, len(got))
			for _, n := range got {
				ids = append(ids, n.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("FilterNotes() ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}
