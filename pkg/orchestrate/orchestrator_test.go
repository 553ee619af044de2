package orchestrate

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeRunner struct {
	fail  map[string]bool
	panic map[string]bool
	delay time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu    sync.Mutex
	hints map[string]string
}

func (f *fakeRunner) Run(_ context.Context, seedURL, hint string) (*models.BusinessDNA, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	if f.hints == nil {
		f.hints = map[string]string{}
	}
	f.hints[seedURL] = hint
	f.mu.Unlock()

	if f.panic[seedURL] {
		panic("renderer crashed")
	}
	if f.fail[seedURL] {
		return nil, utils.WrapErrorf(utils.ErrNoPagesRendered, "%s", seedURL)
	}
	return &models.BusinessDNA{
		SourceURL:    seedURL,
		BusinessName: "Biz " + seedURL,
		Metadata:     models.DNAMetadata{TotalPagesScraped: 3},
	}, nil
}

func TestOrchestrator_Run(t *testing.T) {
	runner := &fakeRunner{
		fail:  map[string]bool{"https://b.example": true},
		panic: map[string]bool{"https://c.example": true},
	}
	targets := []Target{
		{URL: "https://a.example", NameHint: "Alpha"},
		{URL: "https://b.example"},
		{URL: "https://c.example"},
		{URL: "https://d.example"},
	}

	results := NewOrchestrator(runner, 2, testLogger()).Run(context.Background(), targets)
	require.Len(t, results, 4)

	for i, r := range results {
		assert.Equal(t, targets[i], r.Target, "results keep target order")
	}

	assert.True(t, results[0].Success)
	assert.Equal(t, 3, results[0].Pages)
	require.NotNil(t, results[0].DNA)
	assert.Equal(t, "Alpha", runner.hints["https://a.example"])

	assert.False(t, results[1].Success)
	assert.True(t, errors.Is(results[1].Error, utils.ErrNoPagesRendered))
	assert.Nil(t, results[1].DNA)

	assert.False(t, results[2].Success)
	require.Error(t, results[2].Error)
	assert.Contains(t, results[2].Error.Error(), "panicked")

	assert.True(t, results[3].Success)
}

func TestOrchestrator_ConcurrencyLimit(t *testing.T) {
	runner := &fakeRunner{delay: 20 * time.Millisecond}
	var targets []Target
	for _, u := range []string{"https://1.example", "https://2.example", "https://3.example", "https://4.example", "https://5.example"} {
		targets = append(targets, Target{URL: u})
	}

	results := NewOrchestrator(runner, 2, testLogger()).Run(context.Background(), targets)
	assert.Len(t, results, 5)
	assert.LessOrEqual(t, runner.maxInFlight.Load(), int32(2))
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewOrchestrator(&fakeRunner{}, 0, testLogger()).Run(ctx, []Target{{URL: "https://a.example"}})
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.True(t, errors.Is(results[0].Error, context.Canceled))
}

func TestParseTargets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Target
	}{
		{"single", "https://a.example", []Target{{URL: "https://a.example"}}},
		{"with hint and spaces", " https://a.example | Alpha Co , https://b.example", []Target{
			{URL: "https://a.example", NameHint: "Alpha Co"},
			{URL: "https://b.example"},
		}},
		{"empty entries skipped", ",,https://a.example,", []Target{{URL: "https://a.example"}}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTargets(tt.in))
		})
	}
}

func TestValidateTargets(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		assert.NoError(t, ValidateTargets([]Target{{URL: "https://a.example"}, {URL: "http://b.example/home"}}))
	})

	t.Run("relative url", func(t *testing.T) {
		err := ValidateTargets([]Target{{URL: "a.example"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, utils.ErrInvalidSeed))
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		err := ValidateTargets([]Target{{URL: "ftp://a.example"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ftp://a.example")
	})

	t.Run("duplicate site", func(t *testing.T) {
		err := ValidateTargets([]Target{{URL: "https://a.example/about"}, {URL: "https://a.example/about"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicates")
	})

	t.Run("empty list", func(t *testing.T) {
		assert.NoError(t, ValidateTargets(nil))
	})
}
