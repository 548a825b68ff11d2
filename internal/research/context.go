package research

import "fmt"

// Context is the shared state a pipeline run accumulates. Keys are written
// once and never removed or replaced, so any stage can trust that what it
// read earlier is still there at the end of the run.
type Context struct {
	values map[string]string
	order  []string
}

// NewContext returns an empty run context.
func NewContext() *Context {
	return &Context{values: make(map[string]string)}
}

// Set records a value under a new key. Writing a key that already exists
// is a programming error and is rejected.
func (c *Context) Set(key, value string) error {
	if _, ok := c.values[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	c.values[key] = value
	c.order = append(c.order, key)
	return nil
}

// Get returns the value for key and whether it has been written.
func (c *Context) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetString returns the value for key, or "" when it is absent.
func (c *Context) GetString(key string) string {
	return c.values[key]
}

// Keys returns the keys in insertion order.
func (c *Context) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}
