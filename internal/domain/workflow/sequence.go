package workflow

import (
	"expense-workflow/internal/domain/rule"
	"expense-workflow/internal/domain/user"
)

// BuildSequence returns the ordered, deduplicated approvers for an expense
// submitted by employee under r (r may be nil):
//
//  1. the employee's manager, when the employee requires manager approval
//  2. r.Order, in listed order
//  3. r.ApproverIDs
//  4. r.SpecificApproverID
//
// Identities already present are skipped at every stage.
func BuildSequence(employee *user.User, r *rule.ApprovalRule) []string {
	seq := make([]string, 0, 4)
	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		seq = append(seq, id)
	}

	if employee != nil && employee.ManagerID != nil && employee.IsManagerApprover {
		add(*employee.ManagerID)
	}
	if r != nil {
		for _, id := range r.Order {
			add(id)
		}
		for _, id := range r.ApproverIDs {
			add(id)
		}
		if id, ok := r.SpecificApprover(); ok {
			add(id)
		}
	}
	return seq
}
