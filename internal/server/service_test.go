package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code4Pete/trade-mvp/constants"
	"github.com/Code4Pete/trade-mvp/internal/common"
	"github.com/Code4Pete/trade-mvp/internal/entity"
	"github.com/Code4Pete/trade-mvp/internal/report"
)

type stubAnalyzer struct {
	lastReq report.Request
	rep     *entity.RiskReport
	err     error
}

func (s *stubAnalyzer) Analyze(_ context.Context, req report.Request) (*entity.RiskReport, error) {
	s.lastReq = req
	return s.rep, s.err
}

type stubExporter struct {
	data []byte
	err  error
}

func (s *stubExporter) ExportReportXLSX(*entity.RiskReport) ([]byte, error) {
	return s.data, s.err
}

func stubReport() *entity.RiskReport {
	return &entity.RiskReport{
		ID:          uuid.New(),
		Route:       entity.Route{OriginCountry: "IN", DestinationCountry: "AE"},
		RiskScore:   30,
		RiskBand:    constants.BandMedium,
		Issues:      []entity.Issue{},
		GeneratedAt: time.Now().UTC(),
	}
}

func newTestServer(analyzer Analyzer, exporter Exporter) http.Handler {
	cfg := common.ServerConfig{
		HTTPAddr:        ":0",
		ShutdownTimeout: time.Second,
		MaxUploadBytes:  8 << 20,
	}
	return NewServer(cfg, analyzer, exporter, nil).Handler()
}

type uploadForm struct {
	files  map[string]string
	fields map[string]string
}

func fullForm() uploadForm {
	return uploadForm{files: map[string]string{
		"invoice":        "%PDF-1.4 invoice",
		"packing_list":   "%PDF-1.4 packing",
		"bill_of_lading": "%PDF-1.4 bl",
	}}
}

func (u uploadForm) encode(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for field, content := range u.files {
		fw, err := w.CreateFormFile(field, field+".pdf")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range u.fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func postForm(t *testing.T, h http.Handler, path string, form uploadForm) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := form.encode(t)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := newTestServer(&stubAnalyzer{rep: stubReport()}, &stubExporter{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyze_OK(t *testing.T) {
	analyzer := &stubAnalyzer{rep: stubReport()}
	h := newTestServer(analyzer, &stubExporter{})

	rec := postForm(t, h, "/v1/analyze", fullForm())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var rep entity.RiskReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, analyzer.rep.ID, rep.ID)
	assert.Equal(t, constants.BandMedium, rep.RiskBand)

	assert.Equal(t, []byte("%PDF-1.4 invoice"), analyzer.lastReq.Invoice)
	assert.Equal(t, []byte("%PDF-1.4 bl"), analyzer.lastReq.BillOfLading)
	assert.Nil(t, analyzer.lastReq.Route)
}

func TestAnalyze_RouteOverride(t *testing.T) {
	analyzer := &stubAnalyzer{rep: stubReport()}
	h := newTestServer(analyzer, &stubExporter{})

	form := fullForm()
	form.fields = map[string]string{"origin_country": "cn", "destination_country": "us"}
	rec := postForm(t, h, "/v1/analyze", form)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, analyzer.lastReq.Route)
	assert.Equal(t, "CN", analyzer.lastReq.Route.OriginCountry)
	assert.Equal(t, "US", analyzer.lastReq.Route.DestinationCountry)
}

func TestAnalyze_MissingUpload(t *testing.T) {
	h := newTestServer(&stubAnalyzer{rep: stubReport()}, &stubExporter{})

	form := fullForm()
	delete(form.files, "packing_list")
	rec := postForm(t, h, "/v1/analyze", form)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "packing_list")
}

func TestAnalyze_BadRoute(t *testing.T) {
	h := newTestServer(&stubAnalyzer{rep: stubReport()}, &stubExporter{})

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"origin only", map[string]string{"origin_country": "IN"}},
		{"three letter code", map[string]string{"origin_country": "IND", "destination_country": "AE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := fullForm()
			form.fields = tt.fields
			rec := postForm(t, h, "/v1/analyze", form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyze_AnalyzerError(t *testing.T) {
	h := newTestServer(&stubAnalyzer{err: errors.New("boom")}, &stubExporter{})

	rec := postForm(t, h, "/v1/analyze", fullForm())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "analysis failed")
}

func TestAnalyzeExport(t *testing.T) {
	rep := stubReport()
	h := newTestServer(&stubAnalyzer{rep: rep}, &stubExporter{data: []byte("xlsx-bytes")})

	rec := postForm(t, h, "/v1/analyze/export", fullForm())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), rep.ID.String())
	assert.Equal(t, "xlsx-bytes", rec.Body.String())
}

func TestAnalyzeExport_ExporterError(t *testing.T) {
	h := newTestServer(&stubAnalyzer{rep: stubReport()}, &stubExporter{err: errors.New("no workbook")})

	rec := postForm(t, h, "/v1/analyze/export", fullForm())

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "export failed")
}
