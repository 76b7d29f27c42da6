package approval

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	approvalerrors "go-payroll/internal/approval/errors"
	"go-payroll/internal/domain"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/audit"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const aggregateApproval = "approval_request"

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, req SubmitRequest) (ApprovalResponse, error)
	Decide(ctx context.Context, actor domain.Actor, id string, req DecideRequest) (ApprovalResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (ApprovalResponse, error)
	ListBySubject(ctx context.Context, actor domain.Actor, subjectID, kind string) ([]ApprovalResponse, error)
}

// ManagerDirectory resolves the direct manager of an employee. A nil id means none.
type ManagerDirectory interface {
	ManagerOf(ctx context.Context, employeeID uuid.UUID) (*uuid.UUID, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	outbox    kafka.OutboxRepository
	directory ManagerDirectory
	engine    *Engine
	audit     audit.Logger
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory ManagerDirectory,
	authorizer domain.Authorizer,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, nil, directory, authorizer, audit.Nop{}, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	directory ManagerDirectory,
	authorizer domain.Authorizer,
	auditLogger audit.Logger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	now := func() time.Time { return time.Now().UTC() }
	return &service{
		db:        db,
		repo:      repo,
		outbox:    outboxRepo,
		directory: directory,
		engine:    NewEngine(authorizer, now),
		audit:     auditLogger,
		now:       now,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, req SubmitRequest) (ApprovalResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	kind := strings.ToUpper(strings.TrimSpace(req.Kind))

	log.Debug("submit approval request",
		zap.String("kind", kind),
		zap.String("actor_id", actor.ID.String()),
		zap.String("subject_id", req.SubjectID),
	)

	if !ValidKind(kind) {
		return ApprovalResponse{}, approvalerrors.ErrInvalidKind
	}
	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return ApprovalResponse{}, approvalerrors.ErrInvalidSubjectID
	}
	payload, err := DecodePayload(kind, req.Payload)
	if err != nil {
		log.Warn("submit approval payload rejected", zap.String("kind", kind), zap.Error(err))
		return ApprovalResponse{}, err
	}

	managerID, err := s.managerFor(ctx, actor, subjectID)
	if err != nil {
		return ApprovalResponse{}, err
	}
	if err := s.engine.AuthorizeSubmit(actor, kind, subjectID, managerID); err != nil {
		log.Warn("submit approval forbidden",
			zap.String("kind", kind),
			zap.String("actor_id", actor.ID.String()),
			zap.String("actor_role", string(actor.Role)),
			zap.String("subject_id", subjectID.String()),
		)
		return ApprovalResponse{}, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return ApprovalResponse{}, err
	}

	now := s.now()
	entity := &ApprovalRequest{
		ID:          uuid.New(),
		Kind:        kind,
		RequesterID: actor.ID,
		SubjectID:   subjectID,
		Payload:     body,
		HoldPeriod:  holdPeriodOf(payload),
		Status:      StatusPending,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.createWithGuard(ctx, entity, payload); err != nil {
		if errors.Is(err, approvalerrors.ErrDuplicateActiveRequest) {
			log.Warn("submit approval duplicate",
				zap.String("kind", kind),
				zap.String("subject_id", subjectID.String()),
				zap.Error(err),
			)
		}
		return ApprovalResponse{}, err
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "APPROVAL_SUBMITTED",
		Message: "approval request submitted",
		Meta: map[string]any{
			"request_id":   entity.ID.String(),
			"kind":         kind,
			"requester_id": actor.ID.String(),
			"subject_id":   subjectID.String(),
		},
	})
	log.Info("approval request submitted",
		zap.String("request_id", entity.ID.String()),
		zap.String("kind", kind),
		zap.String("subject_id", subjectID.String()),
	)
	return mapToResponse(*entity), nil
}

// createWithGuard rejects a second outstanding instance of the same kind for the
// subject. Payment holds are also covered by a partial unique index.
func (s *service) createWithGuard(ctx context.Context, entity *ApprovalRequest, payload Payload) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit approval begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.LockSubject(ctx, entity.SubjectID, entity.Kind); err != nil {
		s.logger.Error("submit approval lock failed", zap.Error(err))
		return err
	}

	outstanding, err := qtx.FindOutstanding(ctx, entity.SubjectID, entity.Kind)
	if err != nil {
		s.logger.Error("submit approval outstanding lookup failed", zap.Error(err))
		return err
	}
	for _, existing := range outstanding {
		if Conflicts(existing, payload) {
			return duplicateOf(existing.ID)
		}
	}

	if err := qtx.Create(ctx, entity); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, approvalerrors.ErrDuplicateActiveRequest) && entity.HoldPeriod != nil {
			_ = tx.Rollback()
			if id, found, lookupErr := s.repo.PendingHoldID(ctx, entity.SubjectID, *entity.HoldPeriod); lookupErr == nil && found {
				return duplicateOf(id)
			}
			return mapped
		}
		if errors.Is(mapped, approvalerrors.ErrSubjectNotFound) {
			s.logger.Warn("submit approval subject missing", zap.String("subject_id", entity.SubjectID.String()))
			return mapped
		}
		s.logger.Error("submit approval persist failed", zap.Error(err))
		return mapped
	}

	if err := s.enqueue(ctx, tx, events.ApprovalSubmittedTopic, events.EventApprovalSubmitted, entity.ID, events.ApprovalSubmittedEvent{
		EventType:   events.EventApprovalSubmitted,
		RequestID:   entity.ID.String(),
		Kind:        entity.Kind,
		RequesterID: entity.RequesterID.String(),
		SubjectID:   entity.SubjectID.String(),
		HoldPeriod:  deref(entity.HoldPeriod),
		Payload:     entity.Payload,
		OccurredAt:  entity.CreatedAt,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit approval commit failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) Decide(ctx context.Context, actor domain.Actor, id string, req DecideRequest) (ApprovalResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	requestID, err := uuid.Parse(id)
	if err != nil {
		return ApprovalResponse{}, approvalerrors.ErrInvalidRequestID
	}
	action, err := ParseAction(req.Action)
	if err != nil {
		return ApprovalResponse{}, err
	}

	decision := Decision{Action: action, Actor: actor, Comment: req.Comment}
	if req.OverrideDate != nil && *req.OverrideDate != "" {
		day, err := parseDate(*req.OverrideDate)
		if err != nil {
			return ApprovalResponse{}, err
		}
		decision.OverrideDate = &day
	}

	log.Debug("decide approval request",
		zap.String("request_id", requestID.String()),
		zap.String("action", string(action)),
		zap.String("actor_id", actor.ID.String()),
	)

	current, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return ApprovalResponse{}, mapRepositoryError(err)
	}

	managerID, err := s.managerFor(ctx, actor, current.SubjectID)
	if err != nil {
		return ApprovalResponse{}, err
	}

	decided, err := s.engine.Decide(*current, decision, managerID)
	if err != nil {
		log.Warn("decide approval rejected",
			zap.String("request_id", requestID.String()),
			zap.String("status", current.Status),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return ApprovalResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide approval begin tx failed", zap.Error(err))
		return ApprovalResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).UpdateDecision(ctx, &decided, current.Version); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, approvalerrors.ErrAlreadyResolved) {
			log.Warn("decide approval lost race",
				zap.String("request_id", requestID.String()),
				zap.Int("version", current.Version),
			)
		} else {
			s.logger.Error("decide approval persist failed", zap.Error(err))
		}
		return ApprovalResponse{}, mapped
	}

	if err := s.enqueue(ctx, tx, events.ApprovalDecidedTopic, events.EventApprovalDecided, decided.ID, events.ApprovalDecidedEvent{
		EventType:   events.EventApprovalDecided,
		RequestID:   decided.ID.String(),
		Kind:        decided.Kind,
		SubjectID:   decided.SubjectID.String(),
		HoldPeriod:  deref(decided.HoldPeriod),
		Status:      decided.Status,
		DeciderID:   actor.ID.String(),
		DeciderRole: string(actor.Role),
		Comment:     deref(decided.DecisionComment),
		DecidedAt:   *decided.DecidedAt,
	}); err != nil {
		return ApprovalResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide approval commit failed", zap.Error(err))
		return ApprovalResponse{}, err
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  "APPROVAL_DECIDED",
		Message: "approval request " + strings.ToLower(decided.Status),
		Meta: map[string]any{
			"request_id":   decided.ID.String(),
			"kind":         decided.Kind,
			"status":       decided.Status,
			"decider_id":   actor.ID.String(),
			"decider_role": string(actor.Role),
			"comment":      deref(decided.DecisionComment),
			"decided_at":   decided.DecidedAt.Format(time.RFC3339),
		},
	})
	log.Info("approval request decided",
		zap.String("request_id", decided.ID.String()),
		zap.String("status", decided.Status),
	)
	return mapToResponse(decided), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (ApprovalResponse, error) {
	requestID, err := uuid.Parse(id)
	if err != nil {
		return ApprovalResponse{}, approvalerrors.ErrInvalidRequestID
	}

	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return ApprovalResponse{}, mapRepositoryError(err)
	}

	managerID, err := s.managerFor(ctx, actor, req.SubjectID)
	if err != nil {
		return ApprovalResponse{}, err
	}
	if err := s.engine.CanRead(*req, actor, managerID); err != nil {
		return ApprovalResponse{}, err
	}
	return mapToResponse(*req), nil
}

func (s *service) ListBySubject(ctx context.Context, actor domain.Actor, subjectID, kind string) ([]ApprovalResponse, error) {
	sid, err := uuid.Parse(subjectID)
	if err != nil {
		return nil, approvalerrors.ErrInvalidSubjectID
	}
	kind = strings.ToUpper(strings.TrimSpace(kind))
	if kind != "" && !ValidKind(kind) {
		return nil, approvalerrors.ErrInvalidKind
	}

	managerID, err := s.managerFor(ctx, actor, sid)
	if err != nil {
		return nil, err
	}
	if err := s.engine.CanRead(ApprovalRequest{SubjectID: sid}, actor, managerID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.FindBySubject(ctx, sid, kind)
	if err != nil {
		return nil, err
	}

	resp := make([]ApprovalResponse, 0, len(reqs))
	for _, r := range reqs {
		resp = append(resp, mapToResponse(r))
	}
	return resp, nil
}

// managerFor looks up the subject's manager only when the actor could be that manager.
func (s *service) managerFor(ctx context.Context, actor domain.Actor, subjectID uuid.UUID) (*uuid.UUID, error) {
	if actor.Role != domain.RoleManager || s.directory == nil || actor.ID == subjectID {
		return nil, nil
	}
	managerID, err := s.directory.ManagerOf(ctx, subjectID)
	if err != nil {
		s.logger.Error("manager lookup failed",
			zap.String("subject_id", subjectID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return managerID, nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, topic, eventType string, aggregateID uuid.UUID, payload any) error {
	if s.outbox == nil {
		return nil
	}

	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		aggregateApproval,
		aggregateID.String(),
		eventType,
		topic,
		payload,
	)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("approval outbox persist failed",
			zap.String("request_id", aggregateID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func duplicateOf(id uuid.UUID) error {
	return approvalerrors.ErrDuplicateActiveRequest.WithDetails(map[string]any{
		"conflicting_request_id": id.String(),
	})
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func mapToResponse(r ApprovalRequest) ApprovalResponse {
	resp := ApprovalResponse{
		ID:              r.ID.String(),
		Kind:            r.Kind,
		RequesterID:     r.RequesterID.String(),
		SubjectID:       r.SubjectID.String(),
		Payload:         r.Payload,
		HoldPeriod:      r.HoldPeriod,
		Status:          r.Status,
		DeciderRole:     r.DeciderRole,
		DecisionComment: r.DecisionComment,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.DeciderID != nil {
		v := r.DeciderID.String()
		resp.DeciderID = &v
	}
	if r.DecidedAt != nil {
		v := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}
