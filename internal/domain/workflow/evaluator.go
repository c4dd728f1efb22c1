package workflow

import (
	"math"

	"expense-workflow/internal/domain/expense"
	"expense-workflow/internal/domain/rule"
)

// Reason names the check that produced an Outcome.
type Reason string

const (
	ReasonRejected  Reason = "rejected"
	ReasonThreshold Reason = "percentage_threshold"
	ReasonSpecific  Reason = "specific_approver"
	ReasonAdvanced  Reason = "advanced"
	ReasonCompleted Reason = "sequence_completed"
)

type Outcome struct {
	To     expense.Transition
	Reason Reason
}

// RequiredApprovals is the number of distinct approving identities needed to
// satisfy threshold percent of a sequence of seqLen approvers (at least 1).
// Halves round to even.
func RequiredApprovals(seqLen, threshold int) int {
	required := int(math.RoundToEven(float64(seqLen) * float64(threshold) / 100))
	if required < 1 {
		return 1
	}
	return required
}

// Evaluate decides the state following a decision on e. history must already
// contain the entry for this decision; r is the live rule (nil when the
// expense has none or it no longer exists).
//
// Rejection is final. An approval first tries the percentage short-circuit,
// then the specific-approver short-circuit, and otherwise advances one step.
func Evaluate(e *expense.Expense, history []expense.ApprovalEntry, r *rule.ApprovalRule, approved bool) Outcome {
	end := len(e.ApproverSequence)
	resolved := func(s expense.Status, why Reason) Outcome {
		return Outcome{To: expense.Transition{Status: s, StepIndex: end}, Reason: why}
	}

	if !approved {
		return resolved(expense.StatusRejected, ReasonRejected)
	}

	if r != nil && r.RuleType.UsesPercentage() {
		if threshold, ok := r.Threshold(); ok && distinctApprovers(history) >= RequiredApprovals(end, threshold) {
			return resolved(expense.StatusApproved, ReasonThreshold)
		}
	}

	if r != nil && r.RuleType.UsesSpecific() {
		if specific, ok := r.SpecificApprover(); ok && hasApproval(history, specific) {
			return resolved(expense.StatusApproved, ReasonSpecific)
		}
	}

	next := e.CurrentStepIndex + 1
	if next >= end {
		return resolved(expense.StatusApproved, ReasonCompleted)
	}
	return Outcome{To: expense.Transition{Status: expense.StatusPending, StepIndex: next}, Reason: ReasonAdvanced}
}

func distinctApprovers(history []expense.ApprovalEntry) int {
	seen := make(map[string]struct{}, len(history))
	for _, h := range history {
		if h.Decision == expense.DecisionApproved {
			seen[h.ApproverID] = struct{}{}
		}
	}
	return len(seen)
}

func hasApproval(history []expense.ApprovalEntry, approverID string) bool {
	for _, h := range history {
		if h.ApproverID == approverID && h.Decision == expense.DecisionApproved {
			return true
		}
	}
	return false
}
