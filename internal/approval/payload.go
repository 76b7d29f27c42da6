package approval

import (
	"encoding/json"
	"strings"
	"time"

	approvalerrors "go-payroll/internal/approval/errors"
	"go-payroll/internal/domain"
)

const dateLayout = "2006-01-02"

const (
	LeaveAnnual = "ANNUAL"
	LeaveSick   = "SICK"
	LeaveUnpaid = "UNPAID"
)

// Payload is the kind-specific body of a request. The set of implementations is closed.
type Payload interface {
	Kind() string
	validate() error
}

type LeavePayload struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

func (LeavePayload) Kind() string { return KindLeave }

func (p LeavePayload) validate() error {
	switch p.LeaveType {
	case LeaveAnnual, LeaveSick, LeaveUnpaid:
	default:
		return approvalerrors.ErrInvalidLeaveType
	}
	start, err := parseDate(p.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(p.EndDate)
	if err != nil {
		return err
	}
	if start.After(end) {
		return approvalerrors.ErrInvalidDateRange
	}
	return nil
}

func (p LeavePayload) Start() time.Time {
	t, _ := time.Parse(dateLayout, p.StartDate)
	return t
}

func (p LeavePayload) End() time.Time {
	t, _ := time.Parse(dateLayout, p.EndDate)
	return t
}

type ResignationPayload struct {
	LastWorkingDay string `json:"last_working_day"`
	Reason         string `json:"reason,omitempty"`
}

func (ResignationPayload) Kind() string { return KindResignation }

func (p ResignationPayload) validate() error {
	_, err := parseDate(p.LastWorkingDay)
	return err
}

type PaymentHoldPayload struct {
	Period string `json:"period"`
	Reason string `json:"reason,omitempty"`
}

func (PaymentHoldPayload) Kind() string { return KindPaymentHold }

func (p PaymentHoldPayload) validate() error {
	if _, err := domain.ParsePeriodKey(p.Period); err != nil {
		return approvalerrors.ErrInvalidHoldPeriod.WithMessage("%s", err.Error())
	}
	return nil
}

// DecodePayload parses and validates raw as the payload of kind.
func DecodePayload(kind string, raw json.RawMessage) (Payload, error) {
	kind = strings.ToUpper(strings.TrimSpace(kind))

	var (
		p   Payload
		err error
	)
	switch kind {
	case KindLeave:
		var v LeavePayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindResignation:
		var v ResignationPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindPaymentHold:
		var v PaymentHoldPayload
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, approvalerrors.ErrInvalidKind
	}
	if err != nil {
		return nil, approvalerrors.ErrInvalidPayload.WithCause(err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, approvalerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func holdPeriodOf(p Payload) *string {
	hold, ok := p.(PaymentHoldPayload)
	if !ok {
		return nil
	}
	key := hold.Period
	return &key
}
