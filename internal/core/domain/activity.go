package domain

import (
	"slices"
	"sort"
)

// ActivityKind is the closed set of digitisation activities.
type ActivityKind string

const (
	KindAcquisition ActivityKind = "Acquisition"
	KindProcessing  ActivityKind = "Processing"
	KindModelling   ActivityKind = "Modelling"
	KindOptimising  ActivityKind = "Optimising"
	KindExporting   ActivityKind = "Exporting"
)

// activityKinds lists the kinds in pipeline order; the index is the rank.
var activityKinds = []ActivityKind{
	KindAcquisition,
	KindProcessing,
	KindModelling,
	KindOptimising,
	KindExporting,
}

// ActivityKinds returns every activity kind in pipeline order.
func ActivityKinds() []ActivityKind {
	out := make([]ActivityKind, len(activityKinds))
	copy(out, activityKinds)
	return out
}

// ParseActivityKind maps an activity tag to its ActivityKind.
// The second return value is false for unknown tags.
func ParseActivityKind(tag string) (ActivityKind, bool) {
	for _, k := range activityKinds {
		if string(k) == tag {
			return k, true
		}
	}
	return "", false
}

// Rank returns the pipeline position of the kind, starting at 1.
// Unknown kinds rank after every known kind.
func (k ActivityKind) Rank() int {
	for i, known := range activityKinds {
		if known == k {
			return i + 1
		}
	}
	return len(activityKinds) + 1
}

// Activity is a digitisation step performed on a cultural heritage object.
type Activity struct {
	// Kind is the activity variant.
	Kind ActivityKind

	// RefersTo is the object the activity was performed on. It points at
	// the canonical reconciled instance and is never owned by the activity.
	RefersTo *CulturalHeritageObject

	// Institute is the responsible institution. Required.
	Institute string

	// Person is the responsible person, empty when unknown.
	Person string

	// Technique is the acquisition technique. Set only for Acquisition.
	Technique string

	// Start is the start date (ISO-like, lexicographically comparable).
	Start string

	// End is the end date (ISO-like, lexicographically comparable).
	End string

	// Tools is the set of tools used, sorted. May be empty.
	Tools []string
}

// NewActivity creates a non-acquisition activity. Tools are copied into a
// fresh sorted set.
func NewActivity(kind ActivityKind, refersTo *CulturalHeritageObject, institute, person, start, end string, tools []string) Activity {
	return Activity{
		Kind:      kind,
		RefersTo:  refersTo,
		Institute: institute,
		Person:    person,
		Start:     start,
		End:       end,
		Tools:     ToolSet(tools),
	}
}

// NewAcquisition creates an Acquisition activity.
func NewAcquisition(refersTo *CulturalHeritageObject, institute, technique, person, start, end string, tools []string) Activity {
	a := NewActivity(KindAcquisition, refersTo, institute, person, start, end, tools)
	a.Technique = technique
	return a
}

// ToolSet returns a sorted, duplicate-free copy of tools without empty
// entries. The result is never nil.
func ToolSet(tools []string) []string {
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		if t != "" {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return slices.Compact(out)
}

// HasTool reports whether the activity used the named tool.
func (a Activity) HasTool(tool string) bool {
	_, found := slices.BinarySearch(a.Tools, tool)
	return found
}

// ObjectID returns the identifier of the referenced object.
func (a Activity) ObjectID() string {
	if a.RefersTo == nil {
		return ""
	}
	return a.RefersTo.Identifier
}

// Equal reports whether a and other describe the same activity. Tools are
// compared as sets and the referenced objects by value.
func (a Activity) Equal(other Activity) bool {
	return a.Kind == other.Kind &&
		a.Institute == other.Institute &&
		a.Person == other.Person &&
		a.Technique == other.Technique &&
		a.Start == other.Start &&
		a.End == other.End &&
		slices.Equal(ToolSet(a.Tools), ToolSet(other.Tools)) &&
		a.RefersTo.Equal(other.RefersTo)
}

// CompareActivities orders activities by referenced object, then by kind rank.
func CompareActivities(a, b Activity) int {
	if c := CompareIdentifiers(a.ObjectID(), b.ObjectID()); c != 0 {
		return c
	}
	return a.Kind.Rank() - b.Kind.Rank()
}
