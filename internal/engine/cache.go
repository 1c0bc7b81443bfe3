package engine

// cacheKey identifies a memoized prediction: the requesting user plus the
// trailing fragment of the query text, kept in the case the caller sent.
type cacheKey struct {
	user string
	tail string
}

// predictionCache memoizes ranked predictions up to a fixed entry bound.
// On overflow it drops a batch of the oldest entries by insertion order;
// access order plays no part. Entries are never invalidated by new typing
// data, so a hit may serve a result that predates recent history writes.
type predictionCache struct {
	capacity int
	batch    int

	entries map[cacheKey][]string
	order   []cacheKey

	hits      uint64
	misses    uint64
	evictions uint64
}

func newPredictionCache(capacity, batch int) *predictionCache {
	return &predictionCache{
		capacity: capacity,
		batch:    batch,
		entries:  make(map[cacheKey][]string),
	}
}

func (c *predictionCache) get(key cacheKey) ([]string, bool) {
	preds, ok := c.entries[key]
	return preds, ok
}

// put stores a result and enforces the entry bound. Overwriting an
// existing key keeps its original insertion position.
func (c *predictionCache) put(key cacheKey, preds []string) {
	if _, ok := c.entries[key]; ok {
		c.entries[key] = preds
		return
	}
	c.entries[key] = preds
	c.order = append(c.order, key)
	if len(c.entries) <= c.capacity {
		return
	}
	n := c.batch
	if n > len(c.order) {
		n = len(c.order)
	}
	for _, old := range c.order[:n] {
		delete(c.entries, old)
	}
	copy(c.order, c.order[n:])
	c.order = c.order[:len(c.order)-n]
	c.evictions += uint64(n)
}

func (c *predictionCache) size() int {
	return len(c.entries)
}
