package entity

import "fmt"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

type Action string

const (
	ActionAccept   Action = "accept"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// InvalidTransitionError is returned when an actor attempts a status change
// outside the transition table. The job is left untouched in that case.
type InvalidTransitionError struct {
	Action Action
	Status JobStatus
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s job in status %s: %s", e.Action, e.Status, e.Reason)
}

// Customer can create jobs and cancel its own jobs while they are still
// PENDING or ACCEPTED.
type Customer struct {
	ID string
}

// Provider can accept unassigned PENDING jobs inside its service area and
// drive its own jobs forward (start, complete). Address is the declared
// service location used for matching.
type Provider struct {
	ID      string
	Address Address
}

// CanAccept checks PENDING -> ACCEPTED: the job must still be unassigned.
func (p Provider) CanAccept(j *Job) error {
	if j.Status != StatusPending {
		return &InvalidTransitionError{Action: ActionAccept, Status: j.Status, Reason: "only pending jobs can be accepted"}
	}
	if j.ProviderID != nil {
		return &InvalidTransitionError{Action: ActionAccept, Status: j.Status, Reason: "job already assigned to a provider"}
	}
	return nil
}

// CanStart checks ACCEPTED -> IN_PROGRESS by the assigned provider.
func (p Provider) CanStart(j *Job) error {
	if j.Status != StatusAccepted {
		return &InvalidTransitionError{Action: ActionStart, Status: j.Status, Reason: "only accepted jobs can be started"}
	}
	if j.ProviderID == nil || *j.ProviderID != p.ID {
		return &InvalidTransitionError{Action: ActionStart, Status: j.Status, Reason: "job is assigned to another provider"}
	}
	return nil
}

// CanComplete checks IN_PROGRESS -> COMPLETED by the assigned provider.
func (p Provider) CanComplete(j *Job) error {
	if j.Status != StatusInProgress {
		return &InvalidTransitionError{Action: ActionComplete, Status: j.Status, Reason: "only in-progress jobs can be completed"}
	}
	if j.ProviderID == nil || *j.ProviderID != p.ID {
		return &InvalidTransitionError{Action: ActionComplete, Status: j.Status, Reason: "job is assigned to another provider"}
	}
	return nil
}

// CanCancel checks PENDING/ACCEPTED -> CANCELLED by the owning customer.
func (c Customer) CanCancel(j *Job) error {
	if j.Status != StatusPending && j.Status != StatusAccepted {
		return &InvalidTransitionError{Action: ActionCancel, Status: j.Status, Reason: "only pending or accepted jobs can be cancelled"}
	}
	if j.CustomerID != c.ID {
		return &InvalidTransitionError{Action: ActionCancel, Status: j.Status, Reason: "job belongs to another customer"}
	}
	return nil
}
