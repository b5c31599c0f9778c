package extractor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlcintake/internal/extractor"
	"tlcintake/internal/port"
)

type stubExtractor struct {
	out   *port.ExtractOutput
	err   error
	calls int
}

func (s *stubExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	s.calls++
	return s.out, s.err
}

func TestFallback_FirstSucceeds(t *testing.T) {
	primary := &stubExtractor{out: &port.ExtractOutput{ModelUsed: "primary"}}
	secondary := &stubExtractor{out: &port.ExtractOutput{ModelUsed: "secondary"}}

	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, "primary", out.ModelUsed)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallback_SecondSucceedsAfterFailure(t *testing.T) {
	primary := &stubExtractor{err: errors.New("boom")}
	secondary := &stubExtractor{out: &port.ExtractOutput{ModelUsed: "secondary"}}

	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, "secondary", out.ModelUsed)
}

func TestFallback_AllFail(t *testing.T) {
	primary := &stubExtractor{err: errors.New("boom")}
	secondary := &stubExtractor{err: errors.New("bang")}

	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	_, err := f.Extract(context.Background(), port.ExtractInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all extractors failed")
}

func TestFallback_RateLimitOpensCircuit(t *testing.T) {
	primary := &stubExtractor{err: extractor.NewRateLimitError("primary", errors.New("429"), 60)}
	secondary := &stubExtractor{out: &port.ExtractOutput{ModelUsed: "secondary"}}

	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	out, err := f.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, "secondary", out.ModelUsed)
	assert.Equal(t, 1, primary.calls)

	// Circuit is open: the rate-limited extractor is skipped
	_, err = f.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallback_AllRateLimited(t *testing.T) {
	primary := &stubExtractor{err: extractor.NewRateLimitError("primary", errors.New("429"), 30)}
	secondary := &stubExtractor{err: extractor.NewRateLimitError("secondary", errors.New("429"), 60)}

	f := extractor.NewFallbackExtractor(
		[]port.DocumentExtractor{primary, secondary},
		[]string{"primary", "secondary"},
	)

	_, err := f.Extract(context.Background(), port.ExtractInput{})
	require.Error(t, err)

	var rlErr *extractor.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "all", rlErr.Provider)
	assert.LessOrEqual(t, rlErr.RetryAfter.Seconds(), float64(30))
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 30, extractor.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("Wed, 21 Oct 2025 07:28:00 GMT"))
}
