package circuit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewsim/pkg/llm"
)

func testConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		RecoveryTimeout:  60 * time.Second,
	}
}

// fakeClock advances manually so recovery timeouts can be tested without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestBreakerOpensAtFailureThreshold(t *testing.T) {
	b := New(testConfig())

	for i := 0; i < 4; i++ {
		b.Record(false)
		assert.Equal(t, Closed, b.GetState(), "should stay closed below threshold")
	}

	b.Record(false)
	assert.Equal(t, Open, b.GetState())
	assert.Equal(t, 5, b.FailureCount())
	assert.False(t, b.Allow(), "open breaker must reject immediately")
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := New(testConfig())

	b.Record(false)
	b.Record(false)
	b.Record(true)
	assert.Equal(t, 0, b.FailureCount())

	// Threshold counts consecutive failures, so four more are not enough.
	for i := 0; i < 4; i++ {
		b.Record(false)
	}
	assert.Equal(t, Closed, b.GetState())
}

func TestBreakerHalfOpenAfterRecoveryTimeout(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := NewWithClock(testConfig(), clock.Now)

	for i := 0; i < 5; i++ {
		b.Record(false)
	}
	require.Equal(t, Open, b.GetState())
	require.False(t, b.Allow())

	clock.Advance(61 * time.Second)
	assert.True(t, b.Allow(), "first call after cooldown is the probe")
	assert.Equal(t, HalfOpen, b.GetState())
}

func TestBreakerClosesAfterSuccessThreshold(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := NewWithClock(testConfig(), clock.Now)

	for i := 0; i < 5; i++ {
		b.Record(false)
	}
	clock.Advance(61 * time.Second)
	require.True(t, b.Allow())

	b.Record(true)
	assert.Equal(t, HalfOpen, b.GetState(), "one success is not enough")
	b.Record(true)
	assert.Equal(t, Closed, b.GetState())
	assert.Equal(t, 0, b.FailureCount())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := NewWithClock(testConfig(), clock.Now)

	for i := 0; i < 5; i++ {
		b.Record(false)
	}
	clock.Advance(61 * time.Second)
	require.True(t, b.Allow())
	require.Equal(t, HalfOpen, b.GetState())

	b.Record(false)
	assert.Equal(t, Open, b.GetState())

	// The OPEN timer restarted: a short advance is not enough to probe again.
	clock.Advance(30 * time.Second)
	assert.False(t, b.Allow())
	clock.Advance(31 * time.Second)
	assert.True(t, b.Allow())
}

func TestBreakerReset(t *testing.T) {
	b := New(testConfig())
	for i := 0; i < 5; i++ {
		b.Record(false)
	}
	require.Equal(t, Open, b.GetState())

	b.Reset()
	assert.Equal(t, Closed, b.GetState())
	assert.Equal(t, 0, b.FailureCount())
	assert.True(t, b.Allow())
}

func TestBreakerConcurrentRecords(t *testing.T) {
	b := New(Config{FailureThreshold: 1000, SuccessThreshold: 2, RecoveryTimeout: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Allow()
				b.Record(false)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 500, b.FailureCount())
	assert.Equal(t, Closed, b.GetState())
}

func TestMiddlewareFailsFastWithoutCallingClient(t *testing.T) {
	b := New(testConfig())
	for i := 0; i < 5; i++ {
		b.Record(false)
	}
	require.Equal(t, Open, b.GetState())

	calls := 0
	base := llm.WrapClient(
		func(_ context.Context, _ llm.CompletionRequest) (llm.CompletionResponse, error) {
			calls++
			return llm.CompletionResponse{Content: "ok"}, nil
		},
		func() string { return "test-model" },
	)

	client := Middleware(b)(base)
	_, err := client.Complete(context.Background(), llm.NewCompletionRequest([]llm.CompletionMessage{llm.NewUserMessage("hi")}))

	var circuitErr *Error
	require.ErrorAs(t, err, &circuitErr)
	assert.Equal(t, Open, circuitErr.State)
	assert.Zero(t, calls, "underlying client must not be invoked while open")
}

func TestMiddlewareRecordsResults(t *testing.T) {
	b := New(testConfig())

	fail := errors.New("boom")
	base := llm.WrapClient(
		func(_ context.Context, _ llm.CompletionRequest) (llm.CompletionResponse, error) {
			return llm.CompletionResponse{}, fail
		},
		func() string { return "test-model" },
	)

	client := Middleware(b)(base)
	req := llm.NewCompletionRequest([]llm.CompletionMessage{llm.NewUserMessage("hi")})
	for i := 0; i < 5; i++ {
		_, err := client.Complete(context.Background(), req)
		require.ErrorIs(t, err, fail)
	}

	assert.Equal(t, Open, b.GetState())
}
