package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go-payroll/internal/attendance"
	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/domain"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
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
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

func TestAttendanceHandler_Compute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, _ := setupAttendanceServiceTest()
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"employee_id":"` + uuid.New().String() + `","month":1,"year":2025,"intervals":[{"start_date":"2025-01-06","end_date":"2025-01-08"}]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/periods", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Compute(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got attendance.AttendancePeriod
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, 27, got.WorkingDays)
		assert.Equal(t, 3, got.UnpaidLeaveDays)
		assert.Equal(t, 24, got.EffectiveWorkingDays)
	})

	t.Run("negative interval outside month", func(t *testing.T) {
		svc, _ := setupAttendanceServiceTest()
		h := attendance.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"employee_id":"` + uuid.New().String() + `","month":1,"year":2025,"intervals":[{"start_date":"2025-02-01","end_date":"2025-02-02"}]}`
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/periods", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Compute(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
	})
}

type stubAttendanceService struct {
	attendance.Service
	getForEmployeeFn func(ctx context.Context, actor domain.Actor, employeeID string, year, month int) (attendance.AttendancePeriod, error)
}

func (s *stubAttendanceService) GetForEmployee(ctx context.Context, actor domain.Actor, employeeID string, year, month int) (attendance.AttendancePeriod, error) {
	return s.getForEmployeeFn(ctx, actor, employeeID, year, month)
}

func TestAttendanceHandler_GetForEmployee(t *testing.T) {
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleEmployee}
	employeeID := uuid.New().String()

	newContext := func(year, month string) (*gin.Context, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodGet, "/attendance/employees/"+employeeID+"/periods/"+year+"/"+month, nil)
		c.Request = req.WithContext(contextutil.WithActor(req.Context(), actor))
		c.Params = gin.Params{
			{Key: "employee_id", Value: employeeID},
			{Key: "year", Value: year},
			{Key: "month", Value: month},
		}
		return c, w
	}

	t.Run("forbidden", func(t *testing.T) {
		h := attendance.NewHandler(&stubAttendanceService{
			getForEmployeeFn: func(ctx context.Context, a domain.Actor, eid string, year, month int) (attendance.AttendancePeriod, error) {
				assert.Equal(t, actor, a)
				assert.Equal(t, 2025, year)
				assert.Equal(t, 3, month)
				return attendance.AttendancePeriod{}, attendanceerrors.ErrForbidden
			},
		})
		c, w := newContext("2025", "3")

		h.GetForEmployee(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative non numeric month", func(t *testing.T) {
		h := attendance.NewHandler(&stubAttendanceService{})
		c, w := newContext("2025", "march")

		h.GetForEmployee(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
