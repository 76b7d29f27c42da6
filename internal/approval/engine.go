package approval

import (
	"encoding/json"
	"strings"
	"time"

	approvalerrors "go-payroll/internal/approval/errors"
	"go-payroll/internal/domain"

	"github.com/google/uuid"
)

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionWithdraw Action = "withdraw"
)

func ParseAction(v string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(v))); a {
	case ActionApprove, ActionReject, ActionWithdraw:
		return a, nil
	}
	return "", approvalerrors.ErrInvalidAction
}

type Decision struct {
	Action       Action
	Actor        domain.Actor
	Comment      string
	OverrideDate *time.Time
}

// Engine holds the state machine rules shared by every request kind. It does no I/O:
// the caller supplies the subject's manager and persists the result.
type Engine struct {
	authorizer domain.Authorizer
	now        func() time.Time
}

func NewEngine(authorizer domain.Authorizer, now func() time.Time) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{authorizer: authorizer, now: now}
}

// AuthorizeSubmit checks who may open a request of kind about subjectID.
// Leave and resignation: the subject, or HR/ADMIN on their behalf.
// Payment hold: HR/ADMIN, or the subject's direct manager.
func (e *Engine) AuthorizeSubmit(actor domain.Actor, kind string, subjectID uuid.UUID, managerID *uuid.UUID) error {
	switch kind {
	case KindLeave, KindResignation:
		if actor.ID == subjectID {
			return e.require(actor, domain.ActionSubmit)
		}
		return e.require(actor, domain.ActionSubmitOthers)
	case KindPaymentHold:
		if actor.ID == subjectID {
			return approvalerrors.ErrSelfDecision
		}
		ok, err := e.allowed(actor, domain.ActionPlaceHold)
		if err != nil || ok {
			return err
		}
		if e.isManagerOf(actor, managerID) {
			return e.require(actor, domain.ActionPlaceHoldTeam)
		}
		return approvalerrors.ErrForbidden
	}
	return approvalerrors.ErrInvalidKind
}

// Decide applies d to req and returns the resolved copy with the version bumped.
// Any decision on a resolved request is AlreadyResolved, whoever asks.
func (e *Engine) Decide(req ApprovalRequest, d Decision, managerID *uuid.UUID) (ApprovalRequest, error) {
	if !req.IsPending() {
		return req, approvalerrors.ErrAlreadyResolved
	}

	comment := strings.TrimSpace(d.Comment)

	switch d.Action {
	case ActionWithdraw:
		if d.Actor.ID != req.RequesterID {
			return req, approvalerrors.ErrNotRequester
		}
		req.Status = StatusWithdrawn

	case ActionApprove:
		if err := e.authorizeDecision(req, d.Actor, managerID); err != nil {
			return req, err
		}
		if d.OverrideDate != nil {
			if req.Kind != KindResignation {
				return req, approvalerrors.ErrOverrideNotAllowed
			}
			payload, err := overrideLastWorkingDay(req.Payload, *d.OverrideDate)
			if err != nil {
				return req, err
			}
			req.Payload = payload
		}
		req.Status = StatusApproved

	case ActionReject:
		if err := e.authorizeDecision(req, d.Actor, managerID); err != nil {
			return req, err
		}
		if comment == "" {
			return req, approvalerrors.ErrCommentRequired
		}
		req.Status = StatusRejected

	default:
		return req, approvalerrors.ErrInvalidAction
	}

	decidedAt := e.now()
	role := string(d.Actor.Role)
	actorID := d.Actor.ID

	req.DeciderID = &actorID
	req.DeciderRole = &role
	req.DecidedAt = &decidedAt
	req.DecisionComment = nil
	if comment != "" {
		req.DecisionComment = &comment
	}
	req.Version++
	return req, nil
}

// authorizeDecision allows HR/ADMIN, or the subject's direct manager acting as MANAGER.
// Nobody decides their own request.
func (e *Engine) authorizeDecision(req ApprovalRequest, actor domain.Actor, managerID *uuid.UUID) error {
	if actor.ID == req.SubjectID {
		return approvalerrors.ErrSelfDecision
	}
	ok, err := e.allowed(actor, domain.ActionDecide)
	if err != nil || ok {
		return err
	}
	if e.isManagerOf(actor, managerID) {
		return e.require(actor, domain.ActionDecideReports)
	}
	return approvalerrors.ErrForbidden
}

// CanRead lets the subject, the requester, the subject's manager and readers see a request.
func (e *Engine) CanRead(req ApprovalRequest, actor domain.Actor, managerID *uuid.UUID) error {
	if actor.ID == req.SubjectID || actor.ID == req.RequesterID || e.isManagerOf(actor, managerID) {
		return nil
	}
	return e.require(actor, domain.ActionRead)
}

// Conflicts reports whether existing blocks a new request with payload p for the same subject.
func Conflicts(existing ApprovalRequest, p Payload) bool {
	if existing.Kind != p.Kind() {
		return false
	}

	switch candidate := p.(type) {
	case PaymentHoldPayload:
		return existing.IsPending() && existing.HoldPeriod != nil && *existing.HoldPeriod == candidate.Period
	case ResignationPayload:
		return existing.IsPending() || existing.Status == StatusApproved
	case LeavePayload:
		if existing.IsPending() {
			return true
		}
		if existing.Status != StatusApproved {
			return false
		}
		var approved LeavePayload
		if err := json.Unmarshal(existing.Payload, &approved); err != nil {
			return true
		}
		return !approved.End().Before(candidate.Start())
	}
	return false
}

func (e *Engine) isManagerOf(actor domain.Actor, managerID *uuid.UUID) bool {
	return actor.Role == domain.RoleManager && managerID != nil && *managerID == actor.ID
}

func (e *Engine) allowed(actor domain.Actor, action string) (bool, error) {
	return e.authorizer.Enforce(domain.EnforceRequest{
		Role:     actor.Role,
		Resource: domain.ResourceApproval,
		Action:   action,
	})
}

func (e *Engine) require(actor domain.Actor, action string) error {
	ok, err := e.allowed(actor, action)
	if err != nil {
		return err
	}
	if !ok {
		return approvalerrors.ErrForbidden
	}
	return nil
}

func overrideLastWorkingDay(raw json.RawMessage, day time.Time) (json.RawMessage, error) {
	var p ResignationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, approvalerrors.ErrInvalidPayload.WithCause(err)
	}
	p.LastWorkingDay = domain.DateOnly(day).Format(dateLayout)
	return json.Marshal(p)
}
