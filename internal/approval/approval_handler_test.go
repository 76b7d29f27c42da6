package approval_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/approval"
	approvalerrors "go-payroll/internal/approval/errors"
	"go-payroll/internal/domain"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeApprovalService struct {
	SubmitFn  func(ctx context.Context, actor domain.Actor, req approval.SubmitRequest) (approval.ApprovalResponse, error)
	DecideFn  func(ctx context.Context, actor domain.Actor, id string, req approval.DecideRequest) (approval.ApprovalResponse, error)
	GetByIDFn func(ctx context.Context, actor domain.Actor, id string) (approval.ApprovalResponse, error)
	ListFn    func(ctx context.Context, actor domain.Actor, subjectID, kind string) ([]approval.ApprovalResponse, error)
}

func (f *fakeApprovalService) Submit(ctx context.Context, actor domain.Actor, req approval.SubmitRequest) (approval.ApprovalResponse, error) {
	return f.SubmitFn(ctx, actor, req)
}
func (f *fakeApprovalService) Decide(ctx context.Context, actor domain.Actor, id string, req approval.DecideRequest) (approval.ApprovalResponse, error) {
	return f.DecideFn(ctx, actor, id, req)
}
func (f *fakeApprovalService) GetByID(ctx context.Context, actor domain.Actor, id string) (approval.ApprovalResponse, error) {
	return f.GetByIDFn(ctx, actor, id)
}
func (f *fakeApprovalService) ListBySubject(ctx context.Context, actor domain.Actor, subjectID, kind string) ([]approval.ApprovalResponse, error) {
	return f.ListFn(ctx, actor, subjectID, kind)
}

func newRequest(method, target, body string, actor *domain.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req = req.WithContext(contextutil.WithActor(req.Context(), *actor))
	}
	c.Request = req
	return c, w
}

func TestApprovalHandler_Submit(t *testing.T) {
	hr := domain.Actor{ID: uuid.New(), Role: domain.RoleHR}
	subject := uuid.NewString()
	body := `{"kind":"PAYMENT_HOLD","subject_id":"` + subject + `","payload":{"period":"2025-01"}}`

	t.Run("success caches response and releases lock", func(t *testing.T) {
		period := "2025-01"
		want := approval.ApprovalResponse{
			ID:         uuid.NewString(),
			Kind:       approval.KindPaymentHold,
			SubjectID:  subject,
			HoldPeriod: &period,
			Status:     approval.StatusPending,
			Version:    1,
			Payload:    json.RawMessage(`{"period":"2025-01"}`),
		}
		svc := &fakeApprovalService{
			SubmitFn: func(ctx context.Context, actor domain.Actor, req approval.SubmitRequest) (approval.ApprovalResponse, error) {
				assert.Equal(t, hr, actor)
				assert.JSONEq(t, `{"period":"2025-01"}`, string(req.Payload))
				return want, nil
			},
		}
		rdb, redisMock := redismock.NewClientMock()
		payload, err := json.Marshal(want)
		require.NoError(t, err)
		redisMock.ExpectSet("idem:cache:s1", payload, 24*time.Hour).SetVal("OK")
		redisMock.ExpectDel("idem:lock:s1").SetVal(1)

		h := approval.NewHandler(svc, rdb)
		c, w := newRequest(http.MethodPost, "/approvals", body, &hr)
		c.Set("idempotency_lock_key", "idem:lock:s1")
		c.Set("idempotency_cache_key", "idem:cache:s1")

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate active request", func(t *testing.T) {
		conflicting := uuid.NewString()
		svc := &fakeApprovalService{
			SubmitFn: func(ctx context.Context, actor domain.Actor, req approval.SubmitRequest) (approval.ApprovalResponse, error) {
				return approval.ApprovalResponse{}, approvalerrors.ErrDuplicateActiveRequest.WithDetails(map[string]any{
					"conflicting_request_id": conflicting,
				})
			},
		}
		h := approval.NewHandler(svc, nil)
		c, w := newRequest(http.MethodPost, "/approvals", body, &hr)

		h.Submit(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, apperror.CodeDuplicateActiveRequest, env.Error.Code)
		assert.Equal(t, conflicting, env.Error.Details["conflicting_request_id"])
	})

	t.Run("negative unknown kind", func(t *testing.T) {
		h := approval.NewHandler(&fakeApprovalService{}, nil)
		c, w := newRequest(http.MethodPost, "/approvals", `{"kind":"BONUS","subject_id":"`+subject+`","payload":{}}`, &hr)

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative unauthenticated", func(t *testing.T) {
		h := approval.NewHandler(&fakeApprovalService{}, nil)
		c, w := newRequest(http.MethodPost, "/approvals", body, nil)

		h.Submit(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestApprovalHandler_Decide(t *testing.T) {
	manager := domain.Actor{ID: uuid.New(), Role: domain.RoleManager}
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		svc := &fakeApprovalService{
			DecideFn: func(ctx context.Context, actor domain.Actor, gotID string, req approval.DecideRequest) (approval.ApprovalResponse, error) {
				assert.Equal(t, id, gotID)
				assert.Equal(t, "reject", req.Action)
				assert.Equal(t, "overlaps release", req.Comment)
				return approval.ApprovalResponse{ID: id, Status: approval.StatusRejected, Version: 2}, nil
			},
		}
		h := approval.NewHandler(svc, nil)
		c, w := newRequest(http.MethodPost, "/approvals/"+id+"/decide", `{"action":"reject","comment":"overlaps release"}`, &manager)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got approval.ApprovalResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, approval.StatusRejected, got.Status)
	})

	t.Run("negative already resolved", func(t *testing.T) {
		svc := &fakeApprovalService{
			DecideFn: func(ctx context.Context, actor domain.Actor, gotID string, req approval.DecideRequest) (approval.ApprovalResponse, error) {
				return approval.ApprovalResponse{}, approvalerrors.ErrAlreadyResolved
			},
		}
		h := approval.NewHandler(svc, nil)
		c, w := newRequest(http.MethodPost, "/approvals/"+id+"/decide", `{"action":"approve"}`, &manager)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.Decide(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, apperror.CodeAlreadyResolved, env.Error.Code)
	})

	t.Run("negative bad override date", func(t *testing.T) {
		h := approval.NewHandler(&fakeApprovalService{}, nil)
		c, w := newRequest(http.MethodPost, "/approvals/"+id+"/decide", `{"action":"approve","override_date":"30/04/2025"}`, &manager)

		h.Decide(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApprovalHandler_List(t *testing.T) {
	hr := domain.Actor{ID: uuid.New(), Role: domain.RoleHR}
	subject := uuid.NewString()

	svc := &fakeApprovalService{
		ListFn: func(ctx context.Context, actor domain.Actor, subjectID, kind string) ([]approval.ApprovalResponse, error) {
			assert.Equal(t, subject, subjectID)
			assert.Equal(t, approval.KindLeave, kind)
			return []approval.ApprovalResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil
		},
	}
	h := approval.NewHandler(svc, nil)
	c, w := newRequest(http.MethodGet, "/approvals?employee_id="+subject+"&kind=LEAVE&page=2&page_size=2", "", &hr)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got []approval.ApprovalResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}
