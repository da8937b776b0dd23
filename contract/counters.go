package contract

import "strconv"

// getCount reads the string counter under the key and defaults to zero, nothing magical here.
func (c *Contract) getCount(key string) uint64 {
	ptr := c.h.StateGet(key)
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.ParseUint(*ptr, 10, 64)
	return n
}

// setCount stores uint64 counters back as decimal strings for the host kv.
func (c *Contract) setCount(key string, n uint64) {
	c.h.StateSet(key, strconv.FormatUint(n, 10))
}

// nextCount returns the current value and bumps the counter.
func (c *Contract) nextCount(key string) uint64 {
	n := c.getCount(key)
	c.setCount(key, n+1)
	return n
}

// UInt64ToString turns an id back into decimal text for logs or env payload building.
// Example payload: UInt64ToString(9001)
func UInt64ToString(val uint64) string {
	return strconv.FormatUint(val, 10)
}
