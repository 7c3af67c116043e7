package observability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingLayout struct {
	NoopLayoutHooks
	mu         sync.Mutex
	iterations int
}

func (c *countingLayout) OnIteration(context.Context, int, float64, float64, float64) {
	c.mu.Lock()
	c.iterations++
	c.mu.Unlock()
}

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	assert.IsType(t, NoopLayoutHooks{}, Layout())
	assert.IsType(t, NoopCacheHooks{}, Cache())
	assert.IsType(t, NoopHTTPHooks{}, HTTP())

	ctx := context.Background()
	Layout().OnLayoutStart(ctx, 4, 4)
	Layout().OnIteration(ctx, 1, 1.0, 0.5, 2.0)
	Layout().OnLayoutComplete(ctx, 100, time.Second, nil)
	Layout().OnRenderStart(ctx, []string{"svg"})
	Layout().OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "layout")
	Cache().OnCacheMiss(ctx, "artifact")
	Cache().OnCacheSet(ctx, "layout", 512)
	HTTP().OnRequest(ctx, "POST", "/v1/layout")
	HTTP().OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)
}

func TestSettersAreIndependent(t *testing.T) {
	t.Cleanup(Reset)

	layout := &countingLayout{}
	cache := &testCacheHooks{}
	http := &testHTTPHooks{}
	SetLayoutHooks(layout)
	SetCacheHooks(cache)
	SetHTTPHooks(http)

	assert.Same(t, layout, Layout())
	assert.Same(t, cache, Cache())
	assert.Same(t, http, HTTP())

	SetLayoutHooks(nil)
	assert.Same(t, layout, Layout(), "nil must not replace installed hooks")

	Reset()
	assert.IsType(t, NoopLayoutHooks{}, Layout())
}

func TestConcurrentEmitAndInstall(t *testing.T) {
	t.Cleanup(Reset)
	hooks := &countingLayout{}
	SetLayoutHooks(hooks)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				Layout().OnIteration(context.Background(), i, 1, 0, 0)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			SetCacheHooks(&testCacheHooks{})
		}
	}()
	wg.Wait()

	assert.Equal(t, 400, hooks.iterations)
}
