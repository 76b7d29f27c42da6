package approval_test

import (
	"context"
	"encoding/json"

	"go-payroll/internal/approval"
	approvalerrors "go-payroll/internal/approval/errors"
	"go-payroll/internal/domain"
	"go-payroll/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("approval workflow lifecycle", func() {
	var (
		ctx      context.Context
		repo     *memRepository
		outbox   *fakeOutbox
		mock     sqlmock.Sqlmock
		svc      approval.Service
		employee domain.Actor
		manager  domain.Actor
		hr       domain.Actor
	)

	BeforeEach(func() {
		ctx = context.Background()
		employee = domain.Actor{ID: uuid.New(), Role: domain.RoleEmployee}
		manager = domain.Actor{ID: uuid.New(), Role: domain.RoleManager}
		hr = domain.Actor{ID: uuid.New(), Role: domain.RoleHR}

		db, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = db.Close() })
		mock = m
		mock.MatchExpectationsInOrder(false)

		authorizer, err := rbac.NewDefaultService("")
		Expect(err).NotTo(HaveOccurred())

		repo = newMemRepository()
		outbox = &fakeOutbox{}
		svc = approval.NewServiceWithOutbox(db, repo, outbox, fakeDirectory{employee.ID: manager.ID}, authorizer, nil)
	})

	expectCommit := func() {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}

	submitLeave := func(start, end string) approval.ApprovalResponse {
		expectCommit()
		resp, err := svc.Submit(ctx, employee, approval.SubmitRequest{
			Kind:      approval.KindLeave,
			SubjectID: employee.ID.String(),
			Payload:   json.RawMessage(`{"leave_type":"ANNUAL","start_date":"` + start + `","end_date":"` + end + `"}`),
		})
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Context("leave request", func() {
		It("moves PENDING to WITHDRAWN and then accepts no further decision", func() {
			created := submitLeave("2025-05-05", "2025-05-07")
			Expect(created.Status).To(Equal(approval.StatusPending))

			expectCommit()
			withdrawn, err := svc.Decide(ctx, employee, created.ID, approval.DecideRequest{Action: "withdraw"})
			Expect(err).NotTo(HaveOccurred())
			Expect(withdrawn.Status).To(Equal(approval.StatusWithdrawn))
			Expect(*withdrawn.DeciderID).To(Equal(employee.ID.String()))

			_, err = svc.Decide(ctx, manager, created.ID, approval.DecideRequest{Action: "approve"})
			Expect(err).To(MatchError(approvalerrors.ErrAlreadyResolved))
		})

		It("blocks an overlapping leave while one is approved but allows a later one", func() {
			created := submitLeave("2025-05-05", "2025-05-07")
			expectCommit()
			_, err := svc.Decide(ctx, manager, created.ID, approval.DecideRequest{Action: "approve"})
			Expect(err).NotTo(HaveOccurred())

			mock.ExpectBegin()
			mock.ExpectRollback()
			_, err = svc.Submit(ctx, employee, approval.SubmitRequest{
				Kind:      approval.KindLeave,
				SubjectID: employee.ID.String(),
				Payload:   json.RawMessage(`{"leave_type":"SICK","start_date":"2025-05-07","end_date":"2025-05-08"}`),
			})
			Expect(err).To(MatchError(approvalerrors.ErrDuplicateActiveRequest))

			later := submitLeave("2025-06-02", "2025-06-03")
			Expect(later.Status).To(Equal(approval.StatusPending))
		})
	})

	Context("payment hold", func() {
		hold := func(period string) approval.SubmitRequest {
			return approval.SubmitRequest{
				Kind:      approval.KindPaymentHold,
				SubjectID: employee.ID.String(),
				Payload:   json.RawMessage(`{"period":"` + period + `","reason":"asset recovery"}`),
			}
		}

		It("allows one pending hold per period until it is resolved", func() {
			expectCommit()
			first, err := svc.Submit(ctx, manager, hold("2025-01"))
			Expect(err).NotTo(HaveOccurred())
			Expect(*first.HoldPeriod).To(Equal("2025-01"))

			mock.ExpectBegin()
			mock.ExpectRollback()
			_, err = svc.Submit(ctx, hr, hold("2025-01"))
			Expect(err).To(MatchError(approvalerrors.ErrDuplicateActiveRequest))

			expectCommit()
			_, err = svc.Decide(ctx, hr, first.ID, approval.DecideRequest{Action: "reject", Comment: "recovered"})
			Expect(err).NotTo(HaveOccurred())

			expectCommit()
			_, err = svc.Submit(ctx, hr, hold("2025-01"))
			Expect(err).NotTo(HaveOccurred())

			Expect(outbox.events).To(HaveLen(3))
			Expect(mock.ExpectationsWereMet()).To(Succeed())
		})

		It("refuses the subject releasing their own hold", func() {
			expectCommit()
			created, err := svc.Submit(ctx, hr, hold("2025-02"))
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Decide(ctx, employee, created.ID, approval.DecideRequest{Action: "approve"})
			Expect(err).To(MatchError(approvalerrors.ErrSelfDecision))

			_, err = svc.Decide(ctx, employee, created.ID, approval.DecideRequest{Action: "withdraw"})
			Expect(err).To(MatchError(approvalerrors.ErrNotRequester))
		})
	})
})
