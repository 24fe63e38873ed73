package rules

import "github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"

// CanTransition is the single source of truth for legal review
// transitions: Pending may move to Approved or Rejected, both of which
// are terminal.
func CanTransition(from, to enums.ReviewStatus) bool {
	if from != enums.StatusPending {
		return false
	}
	return to == enums.StatusApproved || to == enums.StatusRejected
}

// DecisionTargets lists the statuses a reviewer may request.
func DecisionTargets() []enums.ReviewStatus {
	return []enums.ReviewStatus{enums.StatusApproved, enums.StatusRejected}
}
