package models

import "time"

// Category is the closed set of note categories the AI analysis may assign.
// The values are the product's original Chinese labels and are part of the
// wire contract with the model.
type Category string

const (
	CategoryITTech     Category = "IT技术"
	CategoryManagement Category = "管理"
	CategoryFinance    Category = "财务"
	CategoryPersonal   Category = "私人事务"
	CategoryOther      Category = "其它"
)

// Categories returns the closed category set in declaration order.
func Categories() []Category {
	return []Category{
		CategoryITTech,
		CategoryManagement,
		CategoryFinance,
		CategoryPersonal,
		CategoryOther,
	}
}

// ValidCategory reports whether c is a member of the closed category set.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryITTech, CategoryManagement, CategoryFinance, CategoryPersonal, CategoryOther:
		return true
	default:
		return false
	}
}

// AIAnalysis is the transient classification result produced for a note at
// creation time. Its fields become tag rows via TagsFromAnalysis.
type AIAnalysis struct {
	Topic    string   `json:"topic"`
	People   []string `json:"people"`
	Category Category `json:"category"`
	Summary  string   `json:"summary"`
}

// TagsFromAnalysis converts an analysis into the ordered tag list attached
// to a new note: a date tag synthesized from the local clock, then topic,
// category, and one people tag per person.
func TagsFromAnalysis(a *AIAnalysis, now time.Time) []Tag {
	tags := []Tag{
		{Key: TagKeyDate, Value: now.Format("2006-01-02")},
		{Key: TagKeyTopic, Value: a.Topic},
		{Key: TagKeyCategory, Value: string(a.Category)},
	}
	for _, p := range a.People {
		tags = append(tags, Tag{Key: TagKeyPeople, Value: p})
	}
	return tags
}

// DocumentAction is an AI transformation applied to the workspace document.
type DocumentAction string

const (
	ActionTranslate DocumentAction = "translate"
	ActionProofread DocumentAction = "proofread"
	ActionFormat    DocumentAction = "format"
	ActionMindMap   DocumentAction = "mindmap"
)

// ValidDocumentAction reports whether a names a known document action.
func ValidDocumentAction(a DocumentAction) bool {
	switch a {
	case ActionTranslate, ActionProofread, ActionFormat, ActionMindMap:
		return true
	default:
		return false
	}
}

// MindMapNode is one node of the mind-map tree the model returns for the
// mindmap action. Leaves have no children.
type MindMapNode struct {
	Name     string         `json:"name"`
	Children []*MindMapNode `json:"children,omitempty"`
}
