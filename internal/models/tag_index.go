package models

import "sort"

// TagCount is one entry of the derived tag index: a tag value and the
// number of notes carrying it.
type TagCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// BuildTagIndex derives the tag index from a note snapshot: each tag value
// maps to the number of notes containing it at least once (a value repeated
// within one note counts once). Entries are ordered by descending count;
// ties keep the order in which values were first encountered during the
// scan. The index is never cached across mutations.
func BuildTagIndex(notes []*Note) []TagCount {
	counts := make(map[string]int)
	var order []string

	for _, note := range notes {
		seen := make(map[string]bool, len(note.Tags))
		for _, tag := range note.Tags {
			if seen[tag.Value] {
				continue
			}
			seen[tag.Value] = true
			if _, ok := counts[tag.Value]; !ok {
				order = append(order, tag.Value)
			}
			counts[tag.Value]++
		}
	}

	index := make([]TagCount, 0, len(order))
	for _, value := range order {
		index = append(index, TagCount{Value: value, Count: counts[value]})
	}
	sort.SliceStable(index, func(i, j int) bool {
		return index[i].Count > index[j].Count
	})
	return index
}

// FilterNotes returns the notes that carry every selected tag value: AND
// semantics across distinct selections, OR within a single note's own tags
// for a given value. An empty selection returns the input unchanged.
func FilterNotes(notes []*Note, selected []string) []*Note {
	if len(selected) == 0 {
		return notes
	}

	filtered := make([]*Note, 0, len(notes))
	for _, note := range notes {
		if noteHasAll(note, selected) {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

func noteHasAll(note *Note, selected []string) bool {
	for _, want := range selected {
		found := false
		for _, tag := range note.Tags {
			if tag.Value == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
