package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fakeQueue) {
	t.Helper()
	svc, _, q, _, _ := newTestService(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, q
}

func multipartBody(t *testing.T, jobID string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if jobID != "" {
		if err := w.WriteField("jobId", jobID); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestCreateBatchEndpointAccepts(t *testing.T) {
	r, q := newTestRouter(t)

	body, contentType := multipartBody(t, "job-1", map[string]string{"alice.pdf": "pdf-bytes"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Batch struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"batch"`
		Resumes []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"resumes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Batch.ID == "" || resp.Batch.Status != "queued" {
		t.Fatalf("batch = %+v", resp.Batch)
	}
	if len(resp.Resumes) != 1 || resp.Resumes[0].Status != "uploaded" {
		t.Fatalf("resumes = %+v", resp.Resumes)
	}
	if len(q.messages) != 1 {
		t.Fatalf("enqueued %d messages, want 1", len(q.messages))
	}
}

func TestCreateBatchEndpointValidation(t *testing.T) {
	cases := []struct {
		name     string
		jobID    string
		files    map[string]string
		wantCode string
	}{
		{name: "missing job", jobID: "", files: map[string]string{"a.pdf": "x"}, wantCode: "validation_error"},
		{name: "no files", jobID: "job-1", files: nil, wantCode: "validation_error"},
		{name: "bad extension", jobID: "job-1", files: map[string]string{"a.exe": "x"}, wantCode: "unsupported_file"},
		{name: "unknown job", jobID: "job-missing", files: map[string]string{"a.pdf": "x"}, wantCode: "validation_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRouter(t)
			body, contentType := multipartBody(t, tc.jobID, tc.files)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Fatalf("error code = %q, want %q", resp.Error.Code, tc.wantCode)
			}
		})
	}
}
