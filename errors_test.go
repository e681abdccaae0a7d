package menuopts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "player.id == missing", "p-1", base)

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "expr", evalErr.Engine)
	assert.Equal(t, "player.id == missing", evalErr.Expr)
	assert.Equal(t, "p-1", evalErr.Player)
	assert.ErrorIs(t, evalErr.Err, base)
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{
		Engine: "expr",
		Err:    base,
	}

	err := wrapEvaluationError("cel", "rule", "p-9", existing)
	require.ErrorIs(t, err, base)
	assert.Equal(t, "expr", existing.Engine, "existing engine is kept")
	assert.Equal(t, "rule", existing.Expr)
	assert.Equal(t, "p-9", existing.Player)
}

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{&ValidationError{Subject: "node", Reason: "must not be nil"}, ErrValidation},
		{&NotFoundError{CustomID: "Color"}, ErrNotFound},
		{&TypeMismatchError{CustomID: "Volume", Kind: KindSlider, Want: ValueString, Have: ValueNumber}, ErrTypeMismatch},
		{&ValueUnavailableError{CustomID: "Color", NumericID: 3, PlayerID: "p"}, ErrValueUnavailable},
		{&InternalConsistencyError{CustomID: "X", Kind: KindDropdown, Detail: "no extraction"}, ErrInternalConsistency},
	}
	for _, tc := range cases {
		assert.ErrorIs(t, tc.err, tc.target, "%T", tc.err)
		assert.NotEmpty(t, tc.err.Error(), "%T", tc.err)
	}
}

func TestTypeMismatchMessageNamesBothTypes(t *testing.T) {
	err := &TypeMismatchError{CustomID: "Volume", Kind: KindSlider, Want: ValueString, Have: ValueNumber}
	assert.EqualError(t, err, `menuopts: slider "Volume" returns number, not string`)
}
