package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, TraceIDLength*2)
	assert.NotEqual(t, id, GetTraceID(SetTraceID(context.Background())))

	assert.Len(t, generateFallbackTraceID(), TraceIDLength*2)
}

func TestUserIDFrom(t *testing.T) {
	t.Parallel()

	_, ok := UserIDFrom(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFrom(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := UserIDFrom(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

type guessBody struct {
	Guess string `json:"guess" validate:"required,max=5"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
		empty   bool
	}{
		{name: "valid", body: `{"guess":"react"}`},
		{name: "empty body", body: "", wantErr: true, empty: true},
		{name: "malformed", body: `{"guess":`, wantErr: true},
		{name: "unknown field", body: `{"guess":"react","extra":1}`, wantErr: true},
		{name: "trailing data", body: `{"guess":"react"}{"guess":"trace"}`, wantErr: true},
		{name: "too large", body: `{"guess":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v guessBody
			err := DecodeJSON(httptest.NewRecorder(), r, &v)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "react", v.Guess)
				return
			}
			assert.Error(t, err)
			if tt.empty {
				assert.ErrorIs(t, err, ErrEmptyBody)
			}
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&guessBody{Guess: "react"}))
	assert.Error(t, ValidateRequest(&guessBody{}))
	assert.Error(t, ValidateRequest(&guessBody{Guess: "toolong"}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.Error(t, ValidateRequest(selfValidating{}))
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/api/codele/today/guesses", nil)
	r = r.WithContext(WithTraceID(r.Context(), "trace-1"))
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, r, http.StatusConflict, "Session was modified, retry",
		errors.New("postgres://user:secret@db/codele: conflict"),
		WithRetryable(), WithRetryAfter(1500*time.Millisecond))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Session was modified, retry", body.Error)
	assert.True(t, body.Retryable)
	assert.Equal(t, "trace-1", body.TraceID)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	RespondWithError(w, r, http.StatusNotFound, "Not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestRespondWithText(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	RespondWithText(w, r, http.StatusOK, "Codele #230 3/6\n🟩")

	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Codele #230 3/6\n🟩", w.Body.String())
}
