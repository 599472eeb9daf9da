package dag

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Kind is the semantic role of a node. It drives sizing and placement.
type Kind string

const (
	KindStart        Kind = "start"
	KindEnd          Kind = "end"
	KindDecision     Kind = "decision"
	KindDecisionElse Kind = "decision-else"
	KindDecisionEnd  Kind = "decision-end"
	KindMerge        Kind = "merge"
	KindFork         Kind = "fork"
	KindJoin         Kind = "join"
	KindNote         Kind = "note"
	KindActivity     Kind = "activity"
	KindError        Kind = "error"
	KindVirtual      Kind = "virtual"
)

// ControlType is the raw element type whose role depends on its action.
const ControlType = "control"

// Rule is one step of the classification chain. Match returns the kind and
// true when the rule applies.
type Rule struct {
	Name  string
	Match func(rawType, text string) (Kind, bool)
}

var exactTypes = map[string]Kind{
	"start":          KindStart,
	"initial":        KindStart,
	"end":            KindEnd,
	"stop":           KindEnd,
	"final":          KindEnd,
	"kill":           KindEnd,
	"decision":       KindDecision,
	"decision-start": KindDecision,
	"if":             KindDecision,
	"decision-else":  KindDecisionElse,
	"else":           KindDecisionElse,
	"elseif":         KindDecisionElse,
	"decision-end":   KindDecisionEnd,
	"endif":          KindDecisionEnd,
	"end-if":         KindDecisionEnd,
	"merge":          KindMerge,
	"fork":           KindFork,
	"fork-start":     KindFork,
	"split":          KindFork,
	"join":           KindJoin,
	"fork-end":       KindJoin,
	"end-fork":       KindJoin,
	"end-split":      KindJoin,
	"note":           KindNote,
	"activity":       KindActivity,
	"action":         KindActivity,
	"error":          KindError,
}

// substringTypes is evaluated in order; earlier entries shadow later ones
// ("decision-end" must win over "end").
var substringTypes = []struct {
	needle string
	kind   Kind
}{
	{"else", KindDecisionElse},
	{"endif", KindDecisionEnd},
	{"decision-end", KindDecisionEnd},
	{"merge", KindMerge},
	{"decision", KindDecision},
	{"fork", KindFork},
	{"join", KindJoin},
	{"note", KindNote},
	{"error", KindError},
	{"start", KindStart},
	{"stop", KindEnd},
	{"end", KindEnd},
}

// Rules is the ordered classification chain used by [Classify].
var Rules = []Rule{
	{Name: "exact-type", Match: matchExactType},
	{Name: "type-substring", Match: matchTypeSubstring},
	{Name: "text-keyword", Match: matchTextKeyword},
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func matchExactType(rawType, _ string) (Kind, bool) {
	k, ok := exactTypes[normalize(rawType)]
	return k, ok
}

func matchTypeSubstring(rawType, _ string) (Kind, bool) {
	t := normalize(rawType)
	if t == "" {
		return "", false
	}
	for _, s := range substringTypes {
		if strings.Contains(t, s.needle) {
			return s.kind, true
		}
	}
	return "", false
}

func matchTextKeyword(_, text string) (Kind, bool) {
	t := normalize(text)
	switch {
	case strings.Contains(t, "error"):
		return KindError, true
	case strings.Contains(t, "start"):
		return KindStart, true
	}
	return "", false
}

// Classify maps a raw element type and its display text to a Kind by
// running [Rules] in order. Unmatched input is an activity.
func Classify(rawType, text string) Kind {
	for _, r := range Rules {
		if k, ok := r.Match(rawType, text); ok {
			return k
		}
	}
	return KindActivity
}

var stopActions = []string{"stop", "end", "kill", "detach"}

// Refine upgrades a control node once its action is known: a start action
// makes it a start node, a stop action an end node. Size is recomputed.
// It reports whether the kind changed.
func Refine(n *Node) bool {
	if normalize(n.RawType) != ControlType {
		return false
	}
	action := normalize(n.Action)
	switch {
	case action == "start":
		n.Kind = KindStart
		n.ExplicitStart = true
	case slices.Contains(stopActions, action):
		n.Kind = KindEnd
	default:
		return false
	}
	n.Width, n.Height = Size(n.Kind, n.Text)
	return true
}

// IsEntryCandidate reports whether a node without predecessors may seed
// layering. Branch tails and annotations never start a flow.
func (k Kind) IsEntryCandidate() bool {
	switch k {
	case KindDecisionElse, KindNote, KindDecisionEnd, KindMerge:
		return false
	}
	return true
}

// Size returns the width and height for a node of kind k showing text.
func Size(k Kind, text string) (w, h float64) {
	switch k {
	case KindStart, KindEnd:
		return 30, 30
	case KindDecision, KindDecisionElse, KindDecisionEnd, KindMerge:
		return 50, 50
	case KindFork, KindJoin:
		return 120, 10
	case KindNote:
		return 140, 60
	case KindVirtual:
		return 10, 10
	}
	switch n := utf8.RuneCountInString(text); {
	case n <= 20:
		return 120, 40
	case n <= 40:
		return 160, 50
	case n <= 60:
		return 200, 60
	default:
		return 240, 70
	}
}
