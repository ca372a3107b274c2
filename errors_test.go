package pagekeep_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/pagekeep"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := pagekeep.Errorf(pagekeep.ENOTSUPPORTED, "page %q not supported", "about:blank")

	assert.Equal(t, pagekeep.ENOTSUPPORTED, pagekeep.ErrorCode(err))
	assert.Equal(t, "page \"about:blank\" not supported", pagekeep.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("saving: %w", pagekeep.Errorf(pagekeep.EUNAVAILABLE, "service down"))

	assert.Equal(t, pagekeep.EUNAVAILABLE, pagekeep.ErrorCode(err))
	assert.Equal(t, "service down", pagekeep.ErrorMessage(err))
}

func TestErrorCode_ForeignError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, pagekeep.EINTERNAL, pagekeep.ErrorCode(err))
	assert.Equal(t, "Internal error.", pagekeep.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pagekeep.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pagekeep.ErrorMessage(nil))
}
