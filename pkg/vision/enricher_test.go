package vision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/bizdna/pkg/models"
	"github.com/Sriram-PR/bizdna/pkg/storage"
	"github.com/Sriram-PR/bizdna/pkg/utils"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

type fakeClient struct {
	mu      sync.Mutex
	calls   map[string]int
	fail    map[string]bool
	panics  map[string]bool
	failAll bool
	delay   time.Duration
	pingErr error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}, fail: map[string]bool{}, panics: map[string]bool{}}
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Analyze(ctx context.Context, imageURL string, _ Options) (models.VisionResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls[imageURL]++
	fail, panics := f.fail[imageURL] || f.failAll, f.panics[imageURL]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return models.VisionResult{}, ctx.Err()
		}
	}
	if panics {
		panic("boom")
	}
	if fail {
		return models.VisionResult{}, errors.New("upstream 500")
	}
	return models.VisionResult{
		Caption:    "caption for " + imageURL,
		Text:       []string{"Since 1998"},
		Colors:     []string{"#1a73e8"},
		Confidence: 1.4,
	}, nil
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func urls(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://a.test/img%d.jpg", i)
	}
	return out
}

var allOptions = Options{EnableOCR: true, EnableColors: true, EnableCaptions: true, MaxImages: 3, Concurrency: 3}

func TestEnrich_BudgetAndOrder(t *testing.T) {
	client := newFakeClient()
	e := NewEnricher(client, nil, 0, testLogger())

	images, report := e.Enrich(context.Background(), urls(5), allOptions)
	require.Len(t, images, 5)
	for i := 0; i < 3; i++ {
		assert.Equal(t, urls(5)[i], images[i].URL)
		assert.Equal(t, models.ImageStatusSuccess, images[i].Status)
		assert.Equal(t, "caption for "+images[i].URL, images[i].SemanticCaption)
		assert.Equal(t, 1.0, images[i].VisionConfidence)
	}
	for i := 3; i < 5; i++ {
		assert.Equal(t, models.ImageStatusSkipped, images[i].Status)
		assert.Empty(t, images[i].SemanticCaption)
	}
	assert.Equal(t, EnrichReport{Available: true, Attempted: 3, Succeeded: 3}, report)
	assert.True(t, report.Complete())
	assert.Equal(t, 3, client.callCount())
}

func TestEnrich_PartialFailure(t *testing.T) {
	client := newFakeClient()
	client.fail["https://a.test/img1.jpg"] = true
	client.panics["https://a.test/img2.jpg"] = true
	e := NewEnricher(client, nil, 0, testLogger())

	opts := allOptions
	opts.MaxImages = 4
	images, report := e.Enrich(context.Background(), urls(4), opts)
	require.Len(t, images, 4)
	assert.Equal(t, models.ImageStatusSuccess, images[0].Status)
	assert.Equal(t, models.ImageStatusFailure, images[1].Status)
	assert.Equal(t, "https://a.test/img1.jpg", images[1].URL)
	assert.Empty(t, images[1].ExtractedText)
	assert.Equal(t, models.ImageStatusFailure, images[2].Status)
	assert.Equal(t, models.ImageStatusSuccess, images[3].Status)
	assert.Equal(t, 2, report.Failed)
	assert.False(t, report.Complete())
}

func TestEnrich_EveryImageFails(t *testing.T) {
	client := newFakeClient()
	client.failAll = true
	images, report := NewEnricher(client, nil, 0, testLogger()).Enrich(context.Background(), urls(3), allOptions)
	for _, img := range images {
		assert.Equal(t, models.ImageStatusFailure, img.Status)
		assert.Empty(t, img.DominantColors)
	}
	assert.True(t, report.Available)
	assert.Equal(t, 3, report.Failed)
	assert.False(t, report.Complete())
}

func TestEnrich_Unavailable(t *testing.T) {
	t.Run("ping fails", func(t *testing.T) {
		client := newFakeClient()
		client.pingErr = errors.New("no route")
		images, report := NewEnricher(client, nil, 0, testLogger()).Enrich(context.Background(), urls(2), allOptions)
		require.Len(t, images, 2)
		for _, img := range images {
			assert.Equal(t, models.ImageStatusSkipped, img.Status)
		}
		assert.False(t, report.Available)
		assert.False(t, report.Complete())
		assert.Zero(t, client.callCount())
	})

	t.Run("no client", func(t *testing.T) {
		images, report := NewEnricher(nil, nil, 0, testLogger()).Enrich(context.Background(), urls(2), allOptions)
		assert.Len(t, images, 2)
		assert.False(t, report.Available)
	})

	t.Run("nothing requested", func(t *testing.T) {
		client := newFakeClient()
		images, report := NewEnricher(client, nil, 0, testLogger()).Enrich(context.Background(), urls(2), Options{MaxImages: 3})
		assert.Len(t, images, 2)
		assert.Zero(t, report.Attempted)
		assert.Zero(t, client.callCount())
	})

	t.Run("no images", func(t *testing.T) {
		images, report := NewEnricher(newFakeClient(), nil, 0, testLogger()).Enrich(context.Background(), nil, allOptions)
		assert.Empty(t, images)
		assert.False(t, report.Complete())
	})
}

func TestEnrich_ConcurrencyBound(t *testing.T) {
	client := newFakeClient()
	client.delay = 20 * time.Millisecond
	opts := allOptions
	opts.MaxImages = 8
	opts.Concurrency = 2

	_, report := NewEnricher(client, nil, 0, testLogger()).Enrich(context.Background(), urls(8), opts)
	assert.Equal(t, 8, report.Succeeded)
	assert.LessOrEqual(t, client.maxInFlight.Load(), int32(2))
	assert.GreaterOrEqual(t, client.maxInFlight.Load(), int32(1))
}

func TestEnrich_UsesCache(t *testing.T) {
	client := newFakeClient()
	cache := storage.NewMemoryStore()
	e := NewEnricher(client, cache, 0, testLogger())

	first, _ := e.Enrich(context.Background(), urls(2), allOptions)
	second, report := e.Enrich(context.Background(), urls(2), allOptions)
	assert.Equal(t, 2, client.callCount())
	assert.Equal(t, first, second)
	assert.True(t, report.Complete())
}

func TestBatchAnalyze_ResultsByIndex(t *testing.T) {
	client := newFakeClient()
	client.fail["https://a.test/img0.jpg"] = true
	results := NewEnricher(client, nil, 0, testLogger()).BatchAnalyze(context.Background(), urls(3), allOptions)
	require.Len(t, results, 3)
	assert.Equal(t, models.VisionResult{ImageURL: "https://a.test/img0.jpg"}, results[0])
	for i := 1; i < 3; i++ {
		assert.Equal(t, urls(3)[i], results[i].ImageURL)
		assert.Equal(t, []string{"Since 1998"}, results[i].Text)
	}
}

func TestEnrich_CancelledContext(t *testing.T) {
	client := newFakeClient()
	client.delay = time.Second
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images, report := NewEnricher(client, nil, 0, testLogger()).Enrich(ctx, urls(2), allOptions)
	assert.Len(t, images, 2)
	assert.Equal(t, 2, report.Failed)
}

func TestNewEnricher_RateLimit(t *testing.T) {
	assert.Nil(t, NewEnricher(nil, nil, 0, testLogger()).limiter)
	assert.NotNil(t, NewEnricher(nil, nil, 2.5, testLogger()).limiter)
}

func TestAvailable_WrapsPingError(t *testing.T) {
	client := newFakeClient()
	client.pingErr = errors.New("dns")
	err := NewEnricher(client, nil, 0, testLogger()).available(context.Background())
	assert.ErrorIs(t, err, utils.ErrVisionUnavailable)
}
