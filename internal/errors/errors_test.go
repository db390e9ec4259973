package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"vrsurvey/domain/core"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ConfigInvalid("ALPHA must be in (0, 1)")
	err := Wrap(base, "configuration validation failed")

	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "configuration validation failed: ALPHA must be in (0, 1)", err.Error())
}

func TestWrapClassifiesDomainErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{core.NewLengthMismatchError(3, 4), CodeInvalidInput},
		{fmt.Errorf("trust: %w", core.ErrNoNonZeroDifferences), CodeInvalidInput},
		{core.NewSchemaError(core.ErrUnknownItem, "trust/vr", "trust_view_vr"), CodeSchemaInvalid},
		{core.ErrNotFound, CodeNotFound},
		{stderrors.New("connection refused"), CodeInternalError},
	}
	for _, tt := range tests {
		err := Wrap(tt.err, "analysis failed")
		if got := GetCode(err); got != tt.want {
			t.Errorf("Expected %s for %v, got %s", tt.want, tt.err, got)
		}
		assert.ErrorIs(t, err, tt.err)
	}
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeImportError, stderrors.New("bad header"))
	assert.Equal(t, CodeImportError, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))

	wrapped := fmt.Errorf("load: %w", DatabaseError("query failed", stderrors.New("timeout")))
	assert.Equal(t, CodeDatabaseError, GetCode(wrapped))
}
