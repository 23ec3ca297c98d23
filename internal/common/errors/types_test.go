package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := OCRError("vision request failed", stderrors.New("connection refused"))
	assert.Contains(t, err.Error(), "ocr")
	assert.Contains(t, err.Error(), "vision request failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := TransportError("send failed", cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestConstructorsSetTypes(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorType
	}{
		{InsufficientDataError("no title"), ErrTypeInsufficientData},
		{OCRError("bad image", nil), ErrTypeOCR},
		{TransportError("send failed", nil), ErrTypeTransport},
		{ValidationError("empty input"), ErrTypeValidation},
		{ConfigError("missing key"), ErrTypeConfig},
		{AuthError("token expired"), ErrTypeAuth},
		{NotFoundError("short link"), ErrTypeNotFound},
		{InternalError("oops", nil), ErrTypeInternal},
		{TimeoutError("ocr"), ErrTypeTimeout},
	}
	for _, tt := range tests {
		assert.True(t, IsType(tt.err, tt.want), string(tt.want))
		assert.Equal(t, tt.want, GetType(tt.err))
	}
}

func TestIsTypeOnForeignError(t *testing.T) {
	err := stderrors.New("plain")
	assert.False(t, IsType(err, ErrTypeOCR))
	assert.Equal(t, ErrTypeInternal, GetType(err))
	assert.False(t, IsType(nil, ErrTypeOCR))
}

func TestWithContextAndCode(t *testing.T) {
	err := TransportError("send failed", nil).
		WithCode("429").
		WithContext("platform", "whatsapp")

	assert.Contains(t, err.Error(), "code=429")
	assert.Contains(t, err.Error(), "platform=whatsapp")
}
