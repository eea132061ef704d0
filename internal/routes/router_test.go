package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"equipment-access/internal/listeners"
	"equipment-access/internal/metrics"
	"equipment-access/internal/repositories/memory"
	"equipment-access/internal/services"
	"equipment-access/pkg/config"
	"equipment-access/pkg/eventbus"
	"equipment-access/pkg/imagestore"
	"equipment-access/pkg/qr"
	"equipment-access/pkg/validation"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

// AccessAPITestSuite drives the HTTP surface over in-memory repositories.
type AccessAPITestSuite struct {
	suite.Suite
	Echo    *echo.Echo
	Bus     *eventbus.Bus
	healthy error
}

func (s *AccessAPITestSuite) SetupTest() {
	logger := zap.NewNop()
	bus := eventbus.New(logger)
	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)
	listeners.NewMetricsListener(recorder).Register(bus)

	personRepo := memory.NewPersonRepository()
	providerRepo := memory.NewProviderRepository()
	equipmentRepo := memory.NewEquipmentRepository(memory.WithSequenceStart(5))
	accessRepo := memory.NewAccessRequestRepository(memory.WithSequenceStart(100))
	images, err := imagestore.NewLocalStore(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)
	v := validation.New()

	equipment := services.NewEquipmentService(equipmentRepo, providerRepo, accessRepo, images, v, bus, logger)
	toggle := services.NewAccessToggleService(accessRepo, recorder, bus, logger)
	svc := Services{
		Persons:        services.NewPersonService(personRepo, accessRepo, v, logger),
		Providers:      services.NewProviderService(providerRepo, equipmentRepo, v, logger),
		Equipment:      equipment,
		Import:         services.NewEquipmentImportService(equipment, logger),
		AccessRequests: services.NewAccessRequestService(accessRepo, personRepo, equipmentRepo, v, bus, logger),
		Toggle:         toggle,
		Scan: services.NewScanService(toggle, qr.NewDecoder(), memory.NewCache(), config.ScanConfig{
			Timeout:       time.Second,
			FrameInterval: time.Millisecond,
			Debounce:      time.Minute,
		}, logger),
		Report: services.NewAccessReportService(accessRepo, personRepo, equipmentRepo, logger),
		Tokens: services.NewTokenService(personRepo, equipmentRepo, qr.NewRenderer(256)),
	}

	s.healthy = nil
	s.Echo = echo.New()
	s.Bus = bus
	InitRouter(s.Echo, svc, registry, func(context.Context) error { return s.healthy }, logger)
}

func (s *AccessAPITestSuite) do(method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *AccessAPITestSuite) upload(path, field string, data []byte) (*httptest.ResponseRecorder, envelope) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "upload.png")
	s.Require().NoError(err)
	_, err = part.Write(data)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

// seed creates Person 1, Provider 1, Equipment 5 and the ENTRY request 100.
func (s *AccessAPITestSuite) seed() {
	rec, _ := s.do(http.MethodPost, "/persons", `{"full_name":"Ana Gómez","document":"DOC-1","role":"NURSE"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	rec, _ = s.do(http.MethodPost, "/providers",
		`{"name":"MedSupply","tax_id":"TAX-1","contact_email":"sales@medsupply.example","address":"Main St 1"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	rec, _ = s.do(http.MethodPost, "/equipment", `{"kind":"TECH","serial":"SN-1","brand":"Dell","model":"Latitude",
		"status":"IN_USE","maintenance_frequency":"ANNUAL","provider_id":1,"os":"Linux","ram_gb":16}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	rec, _ = s.do(http.MethodPost, "/access-requests", `{"person_id":1,"equipment_id":5,"purpose":"Maintenance","type":"ENTRY"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *AccessAPITestSuite) TestToggleFlow() {
	s.seed()

	rec, env := s.do(http.MethodPost, "/access-requests/toggle", `{"token":"1,5"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID      int64  `json:"id"`
		Type    string `json:"type"`
		Purpose string `json:"purpose"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &created))
	s.Equal(int64(101), created.ID)
	s.Equal("EXIT", created.Type)
	s.Equal("Maintenance", created.Purpose)

	rec, env = s.do(http.MethodGet, "/access-requests/history?person_id=1&equipment_id=5", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var history struct {
		List []struct {
			Type string `json:"type"`
		} `json:"list"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &history))
	s.Require().Len(history.List, 2)
	s.Equal("ENTRY", history.List[0].Type)
	s.Equal("EXIT", history.List[1].Type)
}

func (s *AccessAPITestSuite) TestErrorMapping() {
	s.seed()

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"malformed token", http.MethodPost, "/access-requests/toggle", `{"token":"1;5"}`, http.StatusBadRequest},
		{"no prior record", http.MethodPost, "/access-requests/toggle", `{"token":"9,9"}`, http.StatusConflict},
		{"missing person", http.MethodGet, "/persons/42", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/persons/abc", "", http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/persons", `{"full_name":`, http.StatusBadRequest},
		{"invalid role", http.MethodPost, "/persons", `{"full_name":"X","document":"D-9","role":"JANITOR"}`, http.StatusBadRequest},
		{"duplicate document", http.MethodPost, "/persons", `{"full_name":"X","document":"DOC-1","role":"ADMIN"}`, http.StatusConflict},
		{"referenced provider", http.MethodDelete, "/providers/1", "", http.StatusConflict},
		{"long purpose", http.MethodPatch, "/access-requests/100", `{"purpose":"` + strings.Repeat("p", 101) + `"}`, http.StatusBadRequest},
		{"unknown token pair", http.MethodGet, "/tokens/1/404", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec, env := s.do(tc.method, tc.path, tc.body)
			s.Equal(tc.code, rec.Code, rec.Body.String())
			s.False(env.Status)
			s.NotEmpty(env.Message)
		})
	}
}

func (s *AccessAPITestSuite) TestValidationNamesField() {
	rec, env := s.do(http.MethodPost, "/providers", `{"name":"P","tax_id":"T","contact_email":"nope","address":"A"}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var body struct {
		Field string `json:"field"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &body))
	s.Equal("contact_email", body.Field)
}

func (s *AccessAPITestSuite) TestPatchWithoutFieldsReturnsRecord() {
	s.seed()

	rec, env := s.do(http.MethodPatch, "/access-requests/100", `{}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var request struct {
		Purpose string `json:"purpose"`
		Type    string `json:"type"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &request))
	s.Equal("Maintenance", request.Purpose)
	s.Equal("ENTRY", request.Type)
}

func (s *AccessAPITestSuite) TestTokenQRAndScan() {
	s.seed()

	rec, env := s.do(http.MethodGet, "/tokens/1/5", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Body), `"token":"1,5"`)

	req := httptest.NewRequest(http.MethodGet, "/tokens/1/5/qr", nil)
	qrRec := httptest.NewRecorder()
	s.Echo.ServeHTTP(qrRec, req)
	s.Require().Equal(http.StatusOK, qrRec.Code)
	s.Equal("image/png", qrRec.Header().Get(echo.HeaderContentType))

	scanRec, scanEnv := s.upload("/access-requests/scan", "frame", qrRec.Body.Bytes())
	s.Require().Equal(http.StatusCreated, scanRec.Code, scanRec.Body.String())
	s.Contains(string(scanEnv.Body), `"type":"EXIT"`)

	again, _ := s.upload("/access-requests/scan", "frame", qrRec.Body.Bytes())
	s.Equal(http.StatusTooManyRequests, again.Code)
}

func (s *AccessAPITestSuite) TestExport() {
	s.seed()

	req := httptest.NewRequest(http.MethodGet, "/access-requests/export", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "access_log_")
	s.NotEmpty(rec.Body.Bytes())
}

func (s *AccessAPITestSuite) TestHealthAndMetrics() {
	rec, _ := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)

	s.healthy = errors.New("database unreachable")
	rec, _ = s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	s.seed()
	s.do(http.MethodPost, "/access-requests/toggle", `{"token":"1,5"}`)
	s.Bus.Wait()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	s.Echo.ServeHTTP(metricsRec, req)
	s.Equal(http.StatusOK, metricsRec.Code)
	s.Contains(metricsRec.Body.String(), `access_toggles_total{type="EXIT"} 1`)
}

func TestAccessAPI(t *testing.T) {
	suite.Run(t, new(AccessAPITestSuite))
}

func TestPaginationWindow(t *testing.T) {
	s := new(AccessAPITestSuite)
	s.SetT(t)
	s.SetupTest()
	for i := 0; i < 3; i++ {
		rec, _ := s.do(http.MethodPost, "/persons",
			`{"full_name":"P","document":"D-`+string(rune('a'+i))+`","role":"ADMIN"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := s.do(http.MethodGet, "/persons?limit=2&page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		List       []json.RawMessage `json:"list"`
		Pagination struct {
			TotalCount int `json:"total_count"`
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Body, &body))
	assert.Len(t, body.List, 1)
	assert.Equal(t, 3, body.Pagination.TotalCount)
	assert.Equal(t, 2, body.Pagination.TotalPages)
}
