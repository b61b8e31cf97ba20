package solver

import (
	"context"
	"sync"
)

// containerResult memoises either a fetched Container or the error the
// provider returned, so repeated requests never re-fetch (§4.6, §7).
type containerResult struct {
	container Container
	err       error
}

// containerCache serialises metadata loads behind a single mutex, per §4.6
// and §5: one mutex guards the memo map, the prefetch set, and the
// condition variable that lets a blocked getContainer wake up when a
// background prefetch for the same id finishes.
type containerCache struct {
	provider PackageContainerProvider

	mu          sync.Mutex
	cond        *sync.Cond
	memo        map[string]containerResult
	prefetching map[string]bool
}

func newContainerCache(provider PackageContainerProvider) *containerCache {
	c := &containerCache{
		provider:    provider,
		memo:        make(map[string]containerResult),
		prefetching: make(map[string]bool),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// GetContainer implements the §4.6 algorithm: check memo, wait out any
// in-flight fetch for the same id, re-check, else fetch synchronously. The
// lock is released during the provider call; the id stays marked in flight
// meanwhile, so concurrent callers for it wait instead of fetching again.
func (c *containerCache) GetContainer(ctx context.Context, id string, skipUpdate bool) (Container, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if r, ok := c.memo[id]; ok {
			return r.container, r.err
		}
		if !c.prefetching[id] {
			break
		}
		c.cond.Wait()
	}

	c.prefetching[id] = true
	c.mu.Unlock()
	container, err := c.provider.GetContainer(ctx, id, skipUpdate)
	c.mu.Lock()
	delete(c.prefetching, id)
	c.memo[id] = containerResult{container: container, err: err}
	c.cond.Broadcast()

	return container, err
}

// Prefetch starts a background fetch for id if one isn't already memoised
// or underway, coordinating with GetContainer via the same lock/condition.
func (c *containerCache) Prefetch(ctx context.Context, id string) {
	c.mu.Lock()
	if _, ok := c.memo[id]; ok || c.prefetching[id] {
		c.mu.Unlock()
		return
	}
	c.prefetching[id] = true
	c.mu.Unlock()

	go func() {
		container, err := c.provider.GetContainer(ctx, id, false)
		c.mu.Lock()
		delete(c.prefetching, id)
		c.memo[id] = containerResult{container: container, err: err}
		c.cond.Broadcast()
		c.mu.Unlock()
	}()
}
