package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UsesMessageTable(t *testing.T) {
	err := New(CodeArtifactNotFound, WithContext("Casino"))

	assert.Equal(t, CodeArtifactNotFound, err.Code)
	assert.Equal(t, "Contract artifact not found", err.Message)
	assert.Equal(t, "ARTIFACT_NOT_FOUND: Contract artifact not found (Casino)", err.Error())
}

func TestNew_UnknownCodeFallsBackToCode(t *testing.T) {
	err := New(Code("SOMETHING_ELSE"))
	assert.Equal(t, "SOMETHING_ELSE", err.Message)
}

func TestWrap(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, CodeInternalError, "x"))
	})

	t.Run("plain error keeps cause", func(t *testing.T) {
		cause := errors.New("dial tcp: refused")
		err := Wrap(cause, CodeEthereumConnectionFailed, "fallback")

		require.NotNil(t, err)
		assert.Equal(t, CodeEthereumConnectionFailed, err.Code)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("app error is returned as is", func(t *testing.T) {
		orig := New(CodeNoAccountsAvailable)
		err := Wrap(orig, CodeInternalError, "accounts")

		assert.Same(t, orig, err)
		assert.Equal(t, "accounts", err.Context)
	})
}

func TestHasCode_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("bind: %w", New(CodeContractNotDeployedOnNetwork))

	assert.True(t, HasCode(err, CodeContractNotDeployedOnNetwork))
	assert.False(t, HasCode(err, CodeCallRejected))
	assert.Equal(t, CodeContractNotDeployedOnNetwork, GetCode(err))
	assert.Equal(t, CodeUnknownError, GetCode(errors.New("plain")))
}

func TestToLog_IncludesCause(t *testing.T) {
	err := External(CodeCallRejected, "joinGame", errors.New("execution reverted"))
	fields := err.ToLog()

	assert.Equal(t, CodeCallRejected, fields["code"])
	assert.Equal(t, "joinGame", fields["context"])
	assert.Equal(t, "execution reverted", fields["cause"])
	assert.Contains(t, fields, "stack")
}
