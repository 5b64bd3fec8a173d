package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewsim/pkg/llmerrors"
)

func TestClassifyStatusCodes(t *testing.T) {
	cases := []struct {
		errStr   string
		wantType llmerrors.ErrorType
	}{
		{"request failed, status code: 401", llmerrors.ErrorTypeAuth},
		{"request failed, status code: 403", llmerrors.ErrorTypeAuth},
		{"request failed, status code: 429", llmerrors.ErrorTypeRateLimit},
		{"request failed, status code: 400", llmerrors.ErrorTypeBadPrompt},
		{"request failed, status code: 500", llmerrors.ErrorTypeTransient},
		{"request failed, status code: 503", llmerrors.ErrorTypeTransient},
	}
	for _, tc := range cases {
		got := Classify(errors.New(tc.errStr))
		require.NotNil(t, got, tc.errStr)
		assert.Equal(t, tc.wantType, got.Type, tc.errStr)
	}
}

func TestClassifyContextErrors(t *testing.T) {
	got := Classify(context.DeadlineExceeded)
	require.NotNil(t, got)
	assert.Equal(t, llmerrors.ErrorTypeTransient, got.Type)

	got = Classify(fmt.Errorf("call failed: %w", context.Canceled))
	require.NotNil(t, got)
	assert.Equal(t, llmerrors.ErrorTypeTransient, got.Type)
}

func TestClassifyTextPatterns(t *testing.T) {
	assert.Equal(t, llmerrors.ErrorTypeTransient, Classify(errors.New("dial tcp: connection refused")).Type)
	assert.Equal(t, llmerrors.ErrorTypeTransient, Classify(errors.New("unexpected EOF")).Type)
	assert.Equal(t, llmerrors.ErrorTypeRateLimit, Classify(errors.New("quota exceeded for project")).Type)
	assert.Equal(t, llmerrors.ErrorTypeAuth, Classify(errors.New("missing api key")).Type)
	assert.Equal(t, llmerrors.ErrorTypeBadPrompt, Classify(errors.New("request body too large")).Type)
	assert.Equal(t, llmerrors.ErrorTypeUnknown, Classify(errors.New("something odd happened")).Type)
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassifyWrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	got := Classify(cause)
	require.NotNil(t, got)
	assert.True(t, errors.Is(got, cause))
}
