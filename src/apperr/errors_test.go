package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("loading: %w", NotFound("storage.GetConversation", "conversation not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"op and message", NotFound("op", "missing"), "op: missing"},
		{"wrapped cause", Internal("op", errors.New("disk full")), "op: disk full"},
		{"message and cause", Upstream("model", errors.New("timeout")), "model: language model call failed: timeout"},
		{"bare kind", &Error{Kind: KindValidation}, "validation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPublicHidesOwnership(t *testing.T) {
	notFound := Public(NotFound("delete", "conversation not found"))
	owned := Public(Ownership("delete", "conversation not found"))

	assert.Equal(t, notFound, owned)
	assert.Equal(t, "not_found", owned.Code)
	assert.Equal(t, http.StatusNotFound, owned.Status)
	assert.True(t, IsNotFound(Ownership("x", "y")))
}

func TestPublicHidesInternals(t *testing.T) {
	p := Public(Internal("storage", errors.New("SQL logic error near SELECT")))
	assert.Equal(t, "internal error", p.Message)
	assert.NotContains(t, p.Message, "SQL")

	p = Public(errors.New("dial tcp: connection refused"))
	assert.Equal(t, "internal", p.Code)

	p = Public(Upstream("model", errors.New("dial tcp: connection refused")))
	assert.True(t, p.Retryable)
	assert.NotContains(t, p.Message, "dial")
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(Upstream("m", errors.New("x"))))
	assert.False(t, Retryable(NotFound("m", "x")))
	assert.False(t, Retryable(nil))
}
