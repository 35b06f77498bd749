package interaction

// FindActiveInteractions selects the rules whose whole drug combination is
// present in drugIDs. A partial match never fires: a rule covering three
// drugs stays silent when only two of them are on the list. Pure and
// deterministic, with no dependence on input order.
func FindActiveInteractions(drugIDs map[string]struct{}, rules []*Rule) []*Rule {
	var active []*Rule
	for _, r := range rules {
		if r == nil || len(r.DrugIDs) < 2 {
			continue
		}
		all := true
		for _, d := range r.DrugIDs {
			if _, ok := drugIDs[d]; !ok {
				all = false
				break
			}
		}
		if all {
			active = append(active, r)
		}
	}
	return active
}
