package dag

import "testing"

func TestClassifyRules(t *testing.T) {
	tests := []struct {
		name    string
		rawType string
		text    string
		want    Kind
	}{
		{"exact start", "start", "", KindStart},
		{"exact case-insensitive", "  Decision ", "", KindDecision},
		{"exact stop", "stop", "", KindEnd},
		{"exact else", "else", "", KindDecisionElse},
		{"exact endif", "endif", "", KindDecisionEnd},
		{"exact fork end", "fork-end", "", KindJoin},
		{"exact activity ignores text", "activity", "Start the engine", KindActivity},
		{"substring else", "decision_else_branch", "", KindDecisionElse},
		{"substring decision end", "uml-decision-end", "", KindDecisionEnd},
		{"substring merge", "merge-node", "", KindMerge},
		{"substring fork", "forkbar", "", KindFork},
		{"substring note", "sticky-note", "", KindNote},
		{"substring end", "flow-end", "", KindEnd},
		{"text error", "task", "Raise error", KindError},
		{"text start", "task", "Process start", KindStart},
		{"default", "task", "Review", KindActivity},
		{"empty type", "", "", KindActivity},
		{"control without action", ControlType, "", KindActivity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.rawType, tt.text); got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.rawType, tt.text, got, tt.want)
			}
		})
	}
}

func TestRulesIndividually(t *testing.T) {
	if _, ok := matchExactType("forkbar", ""); ok {
		t.Error("exact-type matched a substring")
	}
	if k, ok := matchTypeSubstring("decision-end-x", ""); !ok || k != KindDecisionEnd {
		t.Errorf("type-substring = %q,%v", k, ok)
	}
	if _, ok := matchTypeSubstring("", "error"); ok {
		t.Error("type-substring matched empty type")
	}
	if k, ok := matchTextKeyword("", "ERROR: disk full"); !ok || k != KindError {
		t.Errorf("text-keyword = %q,%v", k, ok)
	}
	if len(Rules) != 3 {
		t.Errorf("len(Rules) = %d, want 3", len(Rules))
	}
}

func TestRefine(t *testing.T) {
	tests := []struct {
		name      string
		rawType   string
		action    string
		want      Kind
		changed   bool
		explicit  bool
		wantWidth float64
	}{
		{"start action", "control", "start", KindStart, true, true, 30},
		{"stop action", "Control", "stop", KindEnd, true, false, 30},
		{"detach action", "control", "detach", KindEnd, true, false, 30},
		{"other action", "control", "pause", KindActivity, false, false, 120},
		{"not control", "activity", "start", KindActivity, false, false, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{ID: "n", RawType: tt.rawType, Action: tt.action, Kind: KindActivity}
			n.Width, n.Height = Size(n.Kind, "")
			if got := Refine(n); got != tt.changed {
				t.Errorf("Refine() = %v, want %v", got, tt.changed)
			}
			if n.Kind != tt.want {
				t.Errorf("Kind = %q, want %q", n.Kind, tt.want)
			}
			if n.ExplicitStart != tt.explicit {
				t.Errorf("ExplicitStart = %v, want %v", n.ExplicitStart, tt.explicit)
			}
			if n.Width != tt.wantWidth {
				t.Errorf("Width = %v, want %v", n.Width, tt.wantWidth)
			}
		})
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		kind Kind
		text string
		w, h float64
	}{
		{KindStart, "", 30, 30},
		{KindMerge, "", 50, 50},
		{KindFork, "", 120, 10},
		{KindNote, "anything", 140, 60},
		{KindVirtual, "", 10, 10},
		{KindActivity, "short", 120, 40},
		{KindActivity, "a label that is thirty chars!!", 160, 50},
		{KindError, "an error label that is a good deal longer, ~fifty", 200, 60},
		{KindActivity, "an activity label that goes on and on and on well past sixty runes", 240, 70},
	}
	for _, tt := range tests {
		w, h := Size(tt.kind, tt.text)
		if w != tt.w || h != tt.h {
			t.Errorf("Size(%q, %q) = %vx%v, want %vx%v", tt.kind, tt.text, w, h, tt.w, tt.h)
		}
	}
}

func TestIsEntryCandidate(t *testing.T) {
	for _, k := range []Kind{KindDecisionElse, KindNote, KindDecisionEnd, KindMerge} {
		if k.IsEntryCandidate() {
			t.Errorf("%q should not be an entry candidate", k)
		}
	}
	for _, k := range []Kind{KindActivity, KindDecision, KindFork, KindEnd} {
		if !k.IsEntryCandidate() {
			t.Errorf("%q should be an entry candidate", k)
		}
	}
}
