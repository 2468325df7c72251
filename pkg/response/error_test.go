package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgErrors "github.com/vogiaan1904/seatqueue/pkg/errors"
)

func TestError(t *testing.T) {
	notFound := pkgErrors.NewHTTPError(40401, "Customer not found", http.StatusNotFound)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{name: "httpError", err: notFound, wantStatus: http.StatusNotFound, wantCode: 40401},
		{name: "wrapped", err: fmt.Errorf("lookup: %w", notFound), wantStatus: http.StatusNotFound, wantCode: 40401},
		{name: "defaultStatus", err: pkgErrors.NewHTTPError(40000, "bad", 0), wantStatus: http.StatusBadRequest, wantCode: 40000},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp Resp
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.ErrorCode != tt.wantCode {
				t.Errorf("error_code = %d, want %d", resp.ErrorCode, tt.wantCode)
			}
		})
	}
}
