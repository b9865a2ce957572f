package core

// GroupRecords folds an ordered sequence of charge records into employee
// groups. For each record the parsed last name selects a bucket of
// existing groups; the bucket is scanned in group-creation order and the
// first group whose representative first name fuzzy-matches the record's
// first name wins. No backtracking: transitively similar names that arrive
// in an unlucky order may split across groups, which is accepted
// approximate behavior.
//
// The representative first name is fixed when the group is created and is
// never updated by later records. Group IDs are assigned by output index
// only after the whole input has been consumed.
//
// The fold is deterministic for identical input order and is a pure
// function of the input slice; callers may rerun it on every data refresh.
func GroupRecords(records []ChargeRecord) []*EmployeeGroup {
	var groups []*EmployeeGroup
	buckets := make(map[string][]*EmployeeGroup)

	for _, rec := range records {
		first, last := ParseName(rec.SubscriberName)

		var target *EmployeeGroup
		for _, g := range buckets[last] {
			if Similar(g.FirstName, first, GroupingThreshold) {
				target = g
				break
			}
		}

		if target != nil {
			target.Records = append(target.Records, rec)
			continue
		}

		g := &EmployeeGroup{
			EmployeeName: first + " " + last,
			FirstName:    first,
			LastName:     last,
			Records:      []ChargeRecord{rec},
		}
		groups = append(groups, g)
		buckets[last] = append(buckets[last], g)
	}

	for i, g := range groups {
		g.ID = i
	}
	return groups
}

// FindGroupByName resolves a free-text employee name to a group using the
// looser lookup threshold. The last name must match exactly; the first
// name is fuzzy-matched against the group's representative. Returns nil
// when nothing matches.
func FindGroupByName(groups []*EmployeeGroup, name string) *EmployeeGroup {
	first, last := ParseName(name)
	for _, g := range groups {
		if g.LastName == last && Similar(g.FirstName, first, LookupThreshold) {
			return g
		}
	}
	return nil
}
