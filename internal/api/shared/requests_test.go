package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filterRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=PENDING RUNNING"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "valid body", body: `{"status":"RUNNING"}`, want: "RUNNING"},
		{name: "malformed body", body: `{"status":`, wantErr: true},
		{name: "unknown field", body: `{"state":"RUNNING"}`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/view/filter", strings.NewReader(tc.body))

			var got filterRequest
			err := DecodeJSON(req, &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Status)
		})
	}
}

func TestDecodeOptionalJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/tasks/adopt", strings.NewReader(""))
	var got filterRequest
	assert.NoError(t, DecodeOptionalJSON(req, &got))
	assert.Empty(t, got.Status)

	req = httptest.NewRequest(http.MethodPost, "/tasks/adopt", strings.NewReader("nope"))
	assert.Error(t, DecodeOptionalJSON(req, &got))
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&filterRequest{}))
	assert.NoError(t, ValidateRequest(&filterRequest{Status: "PENDING"}))
	assert.Error(t, ValidateRequest(&filterRequest{Status: "DONE"}))
}
