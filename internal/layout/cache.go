package layout

import "graft/internal/frontend"

// CachingProvider memoizes another Provider keyed by cursor identity.
// Errors are cached too so a broken record is reported once per query
// site, not recomputed.
type CachingProvider struct {
	next    Provider
	layouts map[string]*RecordLayout
	errs    map[string]error
}

func NewCachingProvider(next Provider) *CachingProvider {
	return &CachingProvider{
		next:    next,
		layouts: make(map[string]*RecordLayout, 64),
		errs:    make(map[string]error, 4),
	}
}

func (c *CachingProvider) RecordLayout(cursor frontend.Cursor) (*RecordLayout, error) {
	key := cursor.USR()
	if l, ok := c.layouts[key]; ok {
		return l, nil
	}
	if err, ok := c.errs[key]; ok {
		return nil, err
	}
	l, err := c.next.RecordLayout(cursor)
	if err != nil {
		c.errs[key] = err
		return nil, err
	}
	c.layouts[key] = l
	return l, nil
}
