package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/leave"
)

type mockLeaveService struct {
	submitError   error
	decideError   error
	listError     error
	submitted     *leave.Application
	decided       *leave.Application
	history       []*leave.Application
	balances      []balance.Balance
	summary       *leave.DashboardSummary
	decidedWith   leave.DecideLeaveDTO
	submittedWith leave.SubmitLeaveDTO
	applicant     leave.Applicant
	actor         internal.Actor
}

func (m *mockLeaveService) Submit(ctx context.Context, applicant leave.Applicant, dto leave.SubmitLeaveDTO) (*leave.Application, error) {
	if m.submitError != nil {
		return nil, m.submitError
	}
	m.applicant = applicant
	m.submittedWith = dto
	return m.submitted, nil
}

func (m *mockLeaveService) Decide(ctx context.Context, actor internal.Actor, applicationID int64, dto leave.DecideLeaveDTO) (*leave.Application, error) {
	if m.decideError != nil {
		return nil, m.decideError
	}
	m.actor = actor
	m.decidedWith = dto
	return m.decided, nil
}

func (m *mockLeaveService) History(userID int64) ([]*leave.Application, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.history, nil
}

func (m *mockLeaveService) TeamRequests(managerID int64) ([]*leave.Application, error) {
	return m.history, nil
}

func (m *mockLeaveService) AllRequests() ([]*leave.Application, error) {
	return m.history, nil
}

func (m *mockLeaveService) Balances(userID int64) ([]balance.Balance, error) {
	return m.balances, nil
}

func (m *mockLeaveService) Dashboard(actor internal.Actor) (*leave.DashboardSummary, error) {
	return m.summary, nil
}

func authenticatedRequest(method, target string, body []byte, user *auth.User) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("Leave Handler", func() {
	var (
		service  *mockLeaveService
		handler  *leave.Handler
		recorder *httptest.ResponseRecorder

		managerID int64
		employee  *auth.User
	)

	BeforeEach(func() {
		managerID = 7
		employee = &auth.User{ID: 1, Name: "Dewi", Email: "dewi@mail.com", Role: "employee", ManagerID: &managerID}

		service = &mockLeaveService{
			submitted: &leave.Application{ID: 10, UserID: 1, Status: leave.StatusPending},
			decided:   &leave.Application{ID: 10, UserID: 1, Status: leave.StatusApproved},
		}
		handler = leave.NewHandler(service)
		recorder = httptest.NewRecorder()
	})

	Describe("Submit", func() {
		It("should submit and return 201 with the pending application", func() {
			body, _ := json.Marshal(map[string]interface{}{
				"leave_type_id": 1,
				"start_date":    "2025-03-10",
				"end_date":      "2025-03-12",
				"reason":        "family event",
			})
			req := authenticatedRequest("POST", "/api/v1/leaves", body, employee)

			handler.Submit(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusCreated))
			Expect(service.applicant.ID).To(Equal(int64(1)))
			Expect(service.applicant.ManagerID).To(HaveValue(Equal(int64(7))))

			var resp leave.Application
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal(leave.StatusPending))
		})

		It("should reject an unauthenticated request", func() {
			req := httptest.NewRequest("POST", "/api/v1/leaves", bytes.NewBufferString("{}"))

			handler.Submit(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should reject a malformed body", func() {
			req := authenticatedRequest("POST", "/api/v1/leaves", []byte("not json"), employee)

			handler.Submit(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map an overlap rejection to 409", func() {
			service.submitError = internal.ErrLeaveOverlap
			body, _ := json.Marshal(map[string]interface{}{
				"leave_type_id": 1,
				"start_date":    "2025-03-10",
				"end_date":      "2025-03-12",
				"reason":        "family event",
			})
			req := authenticatedRequest("POST", "/api/v1/leaves", body, employee)

			handler.Submit(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusConflict))

			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Error.Code).To(Equal("LEAVE_OVERLAP"))
		})
	})

	Describe("Decide", func() {
		manager := func() *auth.User {
			return &auth.User{ID: 7, Name: "Bayu", Email: "bayu@mail.com", Role: "manager"}
		}

		It("should approve and return the decided application", func() {
			body, _ := json.Marshal(map[string]string{"status": "approved", "remarks": "have fun"})
			req := withURLParam(authenticatedRequest("PATCH", "/api/v1/leaves/10/decision", body, manager()), "id", "10")

			handler.Decide(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(service.actor.Role).To(Equal("manager"))
			Expect(service.decidedWith.Status).To(Equal("approved"))
		})

		It("should map a foreign report to 403", func() {
			service.decideError = internal.ErrNotYourReport
			body, _ := json.Marshal(map[string]string{"status": "approved"})
			req := withURLParam(authenticatedRequest("PATCH", "/api/v1/leaves/10/decision", body, manager()), "id", "10")

			handler.Decide(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusForbidden))
		})

		It("should reject a non-numeric id", func() {
			body, _ := json.Marshal(map[string]string{"status": "approved"})
			req := withURLParam(authenticatedRequest("PATCH", "/api/v1/leaves/abc/decision", body, manager()), "id", "abc")

			handler.Decide(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Balances and Dashboard", func() {
		It("should return the balance listing", func() {
			service.balances = []balance.Balance{
				{LeaveTypeID: 1, LeaveTypeName: "Casual Leave", TotalDays: 12, UsedDays: 5, AvailableDays: 7},
			}
			req := authenticatedRequest("GET", "/api/v1/leaves/balances", nil, employee)

			handler.Balances(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))

			var resp []balance.Balance
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp).To(HaveLen(1))
			Expect(resp[0].AvailableDays).To(Equal(7))
		})

		It("should return the dashboard summary", func() {
			service.summary = &leave.DashboardSummary{
				PendingCount:  2,
				ApprovedCount: 1,
				RecentRequests: []*leave.Application{
					{ID: 10, Status: leave.StatusPending, AppliedAt: time.Now()},
				},
			}
			req := authenticatedRequest("GET", "/api/v1/dashboard", nil, employee)

			handler.Dashboard(recorder, req)

			Expect(recorder.Code).To(Equal(http.StatusOK))

			var resp leave.DashboardSummary
			Expect(json.Unmarshal(recorder.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.PendingCount).To(Equal(2))
			Expect(resp.RecentRequests).To(HaveLen(1))
		})
	})
})
