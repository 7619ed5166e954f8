package shared

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cardPayload struct {
	Question string `json:"question" validate:"required,max=20"`
	Answer   string `json:"answer"   validate:"required"`
	Box      int    `json:"box"      validate:"omitempty,min=1,max=5"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		errContains string
	}{
		{name: "valid", body: `{"question":"Capital of France?","answer":"Paris"}`},
		{name: "trailing comma", body: `{"question":"Q",}`, wantErr: true, errContains: "invalid character"},
		{name: "empty body", body: "", wantErr: true, errContains: "EOF"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/cards", strings.NewReader(tc.body))

			var got cardPayload
			err := DecodeJSON(req, &got)

			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cardPayload{Question: "Capital of France?", Answer: "Paris"}, got)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/notes", failingReader{})

	var target struct{}
	err := DecodeJSON(req, &target)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeJSONBodyLimit(t *testing.T) {
	body := `{"question":"` + strings.Repeat("x", MaxJSONBodyBytes) + `","answer":"A"}`
	req := httptest.NewRequest(http.MethodPost, "/api/cards", strings.NewReader(body))

	var got cardPayload
	err := DecodeJSON(req, &got)

	var tooLarge *http.MaxBytesError
	assert.True(t, errors.As(err, &tooLarge))
}

type settingPayload struct {
	Key string
}

func (s *settingPayload) Validate() error {
	if s.Key == "" {
		return errors.New("key required")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{"struct tags pass", &cardPayload{Question: "Q", Answer: "A", Box: 3}, false},
		{"missing answer", &cardPayload{Question: "Q"}, true},
		{"question too long", &cardPayload{Question: strings.Repeat("q", 21), Answer: "A"}, true},
		{"box out of range", &cardPayload{Question: "Q", Answer: "A", Box: 6}, true},
		{"custom validator passes", &settingPayload{Key: "theme"}, false},
		{"custom validator fails", &settingPayload{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
