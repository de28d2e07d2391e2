// Package cmap provides a sharded concurrent map keyed by strings.
//
// Keys are spread across shards with murmur3, each shard guarded by its
// own RWMutex. The HTTP server uses it to hold per-client rate limiters.
//
//	m := cmap.New[string, *rate.Limiter]()
//	lim, _ := m.GetOrCompute(ip, newLimiter)
package cmap
