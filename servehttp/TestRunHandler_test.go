package servehttp_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"testhub/bizerror"
	"testhub/domain"
	"testhub/domain/run"
	"testhub/servehttp"
	"testhub/session"
	"testhub/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("TestRunHandler", func() {
	var (
		router *gin.Engine

		demoTime   types.Timestamp
		timeString string
	)

	BeforeEach(func() {
		router = gin.Default()
		router.Use(bizerror.ErrorHandling())
		servehttp.RegisterTestRunsHandler(router)

		demoTime = types.TimestampOfDate(2021, 6, 1, 10, 0, 0, 0, time.Local)
		timeBytes, err := json.Marshal(demoTime)
		Expect(err).To(BeNil())
		timeString = strings.Trim(string(timeBytes), `"`)
	})
	AfterEach(func() {
		run.StartRunFunc = run.StartRun
		run.CompleteRunFunc = run.CompleteRun
		run.DiscardRunFunc = run.DiscardRun
	})

	Describe("handleStart", func() {
		It("should be able to serve start request", func() {
			run.StartRunFunc = func(c *domain.TestRunStarting, s *session.Session) (*domain.TestRun, error) {
				return &domain.TestRun{ID: 123, TestCaseID: c.TestCaseID, ExecutedByID: 10, ExecutedAt: demoTime,
					Environment: c.Environment, Status: domain.StatusInProgress}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs",
				bytes.NewReader([]byte(`{"testCaseId":"100","environment":"staging"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(MatchJSON(`{"id":"123","testCaseId":"100","executedById":"10","executedAt":"` + timeString +
				`","environment":"staging","status":"IN_PROGRESS","duration":null,"notes":""}`))
		})

		It("should return 400 when bind failed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs", bytes.NewReader([]byte(`bad json`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid character 'b' looking for beginning of value","data":null}`))
		})

		It("should return 400 when validate failed", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs", bytes.NewReader([]byte(`{}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"Key: 'TestRunStarting.TestCaseID' Error:Field validation for 'TestCaseID' failed on the 'required' tag","data":null}`))
		})

		It("should map permission denial to 403", func() {
			run.StartRunFunc = func(c *domain.TestRunStarting, s *session.Session) (*domain.TestRun, error) {
				return nil, &bizerror.ErrPermissionDenied{Role: "DEVELOPER", ObjectType: "TEST_RUN", Action: "EDIT"}
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs",
				bytes.NewReader([]byte(`{"testCaseId":"100"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusForbidden))
			Expect(body).To(MatchJSON(`{"code":"security.forbidden","message":"access forbidden","data":null}`))
		})

		It("should return 500 when service process failed", func() {
			run.StartRunFunc = func(c *domain.TestRunStarting, s *session.Session) (*domain.TestRun, error) {
				return nil, errors.New("a mocked error")
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs",
				bytes.NewReader([]byte(`{"testCaseId":"100"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusInternalServerError))
			Expect(body).To(MatchJSON(`{"code":"common.internal_server_error","message":"a mocked error","data":null}`))
		})
	})

	Describe("handleComplete", func() {
		It("should be able to serve completion request", func() {
			duration := int64(45000)
			run.CompleteRunFunc = func(id types.ID, c *domain.TestRunCompletion, s *session.Session) (*domain.TestRun, error) {
				Expect(id).To(Equal(types.ID(123)))
				return &domain.TestRun{ID: id, TestCaseID: 100, ExecutedByID: 10, ExecutedAt: demoTime,
					Status: domain.StatusPass, Duration: &duration, Notes: c.Notes}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs/123/completion",
				bytes.NewReader([]byte(`{"status":"PASS","duration":45000,"notes":"all green"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(MatchJSON(`{"id":"123","testCaseId":"100","executedById":"10","executedAt":"` + timeString +
				`","environment":"","status":"PASS","duration":45000,"notes":"all green"}`))
		})

		It("should failed when id is invalid", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs/abc/completion",
				bytes.NewReader([]byte(`{"status":"PASS"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid id 'abc'","data":null}`))
		})

		It("should return 400 for a non terminal status", func() {
			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs/123/completion",
				bytes.NewReader([]byte(`{"status":"IN_PROGRESS"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"Key: 'TestRunCompletion.Status' Error:Field validation for 'Status' failed on the 'oneof' tag","data":null}`))
		})

		It("should map conflicting completions to 409", func() {
			run.CompleteRunFunc = func(id types.ID, c *domain.TestRunCompletion, s *session.Session) (*domain.TestRun, error) {
				return nil, bizerror.ErrNotActive
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/test-runs/123/completion",
				bytes.NewReader([]byte(`{"status":"PASS"}`)))
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(MatchJSON(`{"code":"run.not_active","message":"run is not in progress","data":null}`))

			run.CompleteRunFunc = func(id types.ID, c *domain.TestRunCompletion, s *session.Session) (*domain.TestRun, error) {
				return nil, bizerror.ErrNotOwner
			}
			status, body, _ = testinfra.ExecuteRequest(httptest.NewRequest(http.MethodPost,
				"/v1/test-runs/123/completion", bytes.NewReader([]byte(`{"status":"PASS"}`))), router)
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(MatchJSON(`{"code":"run.not_owner","message":"run belongs to another executor","data":null}`))
		})
	})

	Describe("handleDiscard", func() {
		It("should be able to serve discard request", func() {
			run.DiscardRunFunc = func(id types.ID, s *session.Session) error {
				Expect(id).To(Equal(types.ID(123)))
				return nil
			}
			req := httptest.NewRequest(http.MethodDelete, "/v1/test-runs/123", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNoContent))
			Expect(body).To(BeEmpty())
		})

		It("should map discard conflicts to 409", func() {
			run.DiscardRunFunc = func(id types.ID, s *session.Session) error {
				return bizerror.ErrNotActive
			}
			req := httptest.NewRequest(http.MethodDelete, "/v1/test-runs/123", nil)
			status, body, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(MatchJSON(`{"code":"run.not_active","message":"run is not in progress","data":null}`))
		})
	})
})
