package interaction

import (
	"testing"

	"github.com/google/uuid"
)

func rule(severity Severity, drugs ...string) *Rule {
	return &Rule{
		ID:             uuid.New(),
		DrugIDs:        drugs,
		Severity:       severity,
		ClinicalEffect: "effect",
	}
}

func drugSet(drugs ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(drugs))
	for _, d := range drugs {
		set[d] = struct{}{}
	}
	return set
}

func TestFindActiveInteractions_FullCombinationMatch(t *testing.T) {
	pair := rule(SeverityMajor, "warfarin", "aspirin")
	triple := rule(SeverityModerate, "warfarin", "aspirin", "ibuprofen")

	active := FindActiveInteractions(drugSet("warfarin", "aspirin"), []*Rule{pair, triple})
	if len(active) != 1 {
		t.Fatalf("expected 1 active rule, got %d", len(active))
	}
	if active[0].ID != pair.ID {
		t.Error("the pair rule should fire, not the triple")
	}

	active = FindActiveInteractions(drugSet("warfarin", "aspirin", "ibuprofen"), []*Rule{pair, triple})
	if len(active) != 2 {
		t.Fatalf("expected both rules active, got %d", len(active))
	}
}

func TestFindActiveInteractions_NoPartialMatch(t *testing.T) {
	r := rule(SeverityContraindicated, "warfarin", "aspirin")
	active := FindActiveInteractions(drugSet("warfarin", "lisinopril"), []*Rule{r})
	if len(active) != 0 {
		t.Fatal("a rule must not fire on a partial combination")
	}
}

func TestFindActiveInteractions_OrderIndependent(t *testing.T) {
	a := rule(SeverityMajor, "warfarin", "aspirin")
	b := rule(SeverityMinor, "aspirin", "ibuprofen")
	drugs := drugSet("ibuprofen", "aspirin", "warfarin")

	forward := FindActiveInteractions(drugs, []*Rule{a, b})
	reversed := FindActiveInteractions(drugs, []*Rule{b, a})
	if len(forward) != 2 || len(reversed) != 2 {
		t.Fatalf("expected 2 matches in both orders, got %d and %d", len(forward), len(reversed))
	}
	got := map[uuid.UUID]bool{forward[0].ID: true, forward[1].ID: true}
	for _, r := range reversed {
		if !got[r.ID] {
			t.Error("rule order changed the match set")
		}
	}
}

func TestFindActiveInteractions_EmptyInputs(t *testing.T) {
	if active := FindActiveInteractions(drugSet(), []*Rule{rule(SeverityMajor, "a", "b")}); len(active) != 0 {
		t.Error("no drugs means no interactions")
	}
	if active := FindActiveInteractions(drugSet("a", "b"), nil); len(active) != 0 {
		t.Error("no rules means no interactions")
	}
	if active := FindActiveInteractions(drugSet("a", "b"), []*Rule{nil, {ID: uuid.New(), DrugIDs: []string{"a"}}}); len(active) != 0 {
		t.Error("nil and malformed rules must be skipped")
	}
}

func TestSeverityIsCritical(t *testing.T) {
	if SeverityMinor.IsCritical() || SeverityModerate.IsCritical() {
		t.Error("minor and moderate are not critical")
	}
	if !SeverityMajor.IsCritical() || !SeverityContraindicated.IsCritical() {
		t.Error("major and contraindicated are critical")
	}
}

func TestNewRule(t *testing.T) {
	r, err := NewRule(Input{
		DrugIDs:        []string{" warfarin ", "aspirin", "warfarin"},
		Severity:       "major",
		ClinicalEffect: "increased bleeding risk",
	})
	if err != nil {
		t.Fatalf("NewRule() error = %v", err)
	}
	if len(r.DrugIDs) != 2 {
		t.Errorf("expected duplicates trimmed and dropped, got %v", r.DrugIDs)
	}

	if _, err := NewRule(Input{DrugIDs: []string{"warfarin"}, Severity: "major", ClinicalEffect: "x"}); err == nil {
		t.Error("a single-drug rule must be rejected")
	}
	if _, err := NewRule(Input{DrugIDs: []string{"a", "b"}, Severity: "fatal", ClinicalEffect: "x"}); err == nil {
		t.Error("unknown severity must be rejected")
	}
	if _, err := NewRule(Input{DrugIDs: []string{"a", "b"}, Severity: "minor"}); err == nil {
		t.Error("missing clinical effect must be rejected")
	}
}
