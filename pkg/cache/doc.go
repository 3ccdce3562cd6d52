// Package cache provides a small generic, thread-safe LRU cache whose
// entries can expire after a fixed time-to-live.
//
// The forms registry uses it to keep parsed form definitions between
// requests:
//
//	c := cache.New[string, *forms.Registry](8, time.Minute)
//	c.Put(root, reg)
//	if reg, ok := c.Get(root); ok {
//		// use reg
//	}
//
// A zero TTL keeps entries until they are evicted by capacity.
package cache
