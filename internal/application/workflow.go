package application

import (
	"fmt"
	"log"
	"strings"
)

// Status is a loan application status as stored.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"

	// statusUnderReview is accepted on input and means StatusReviewing.
	statusUnderReview Status = "under_review"
)

// Statuses lists every recognised status in workflow order.
var Statuses = []Status{StatusPending, StatusReviewing, StatusApproved, StatusRejected}

// UnknownStatusPolicy decides what an unrecognised current status may move to.
type UnknownStatusPolicy string

const (
	// PolicyAllow lets an unrecognised current status move to any status.
	PolicyAllow UnknownStatusPolicy = "allow"
	// PolicyDeny refuses every transition out of an unrecognised status.
	PolicyDeny UnknownStatusPolicy = "deny"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusPending, StatusReviewing, StatusRejected},
	StatusReviewing: {StatusReviewing, StatusApproved, StatusRejected},
	StatusApproved:  {StatusApproved},
	StatusRejected:  {StatusRejected},
}

// DecisionKind classifies a refused transition.
type DecisionKind string

const (
	KindNone              DecisionKind = ""
	KindInvalidStatus     DecisionKind = "invalid_status"
	KindIllegalTransition DecisionKind = "illegal_transition"
)

// Decision is the outcome of RequestTransition. Message is safe to show to the caller.
type Decision struct {
	OK      bool
	Kind    DecisionKind
	From    Status
	To      Status
	Allowed []Status
	Message string
}

// Workflow is the status state machine. It holds no per-application state.
type Workflow struct {
	policy UnknownStatusPolicy
}

func NewWorkflow(policy UnknownStatusPolicy) *Workflow {
	if policy != PolicyDeny {
		policy = PolicyAllow
	}
	return &Workflow{policy: policy}
}

// Normalize maps raw input onto a recognised status. Matching is exact and
// case-sensitive; only under_review is folded into reviewing.
func Normalize(raw string) (Status, bool) {
	s, ok, aliased := normalize(raw)
	if aliased {
		logAlias(raw)
	}
	return s, ok
}

func normalize(raw string) (s Status, ok bool, aliased bool) {
	s = Status(raw)
	if s == statusUnderReview {
		return StatusReviewing, true, true
	}
	_, ok = transitions[s]
	return s, ok, false
}

// under_review and reviewing are known to be used interchangeably by older clients.
func logAlias(raw string) {
	log.Printf("application status alias: from=%s to=%s", raw, StatusReviewing)
}

// AllowedTargets returns the statuses reachable from current, including current itself.
func (w *Workflow) AllowedTargets(current string) []Status {
	from, ok, _ := normalize(current)
	if !ok {
		if w.policy == PolicyDeny {
			return []Status{}
		}
		return append([]Status(nil), Statuses...)
	}
	return append([]Status(nil), transitions[from]...)
}

func (w *Workflow) RequestTransition(current, requested string) Decision {
	from, known, fromAlias := normalize(current)
	if !known {
		from = Status(current)
	}
	to, ok, toAlias := normalize(requested)
	if fromAlias || toAlias {
		logAlias(string(statusUnderReview))
	}
	if !ok {
		return Decision{
			Kind:    KindInvalidStatus,
			From:    from,
			To:      Status(requested),
			Allowed: w.AllowedTargets(current),
			Message: fmt.Sprintf("invalid status %q: must be one of %s", requested, joinStatuses(Statuses)),
		}
	}

	allowed := w.AllowedTargets(current)
	for _, a := range allowed {
		if a == to {
			return Decision{OK: true, From: from, To: to, Allowed: allowed}
		}
	}

	return Decision{
		Kind:    KindIllegalTransition,
		From:    from,
		To:      to,
		Allowed: allowed,
		Message: fmt.Sprintf("cannot change status from %s to %s; allowed: %s", from, to, joinStatuses(allowed)),
	}
}

func joinStatuses(statuses []Status) string {
	if len(statuses) == 0 {
		return "none"
	}
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
