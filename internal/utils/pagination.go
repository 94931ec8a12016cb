// Package utils holds tiny helpers shared across layers. Nothing in here
// knows about listings, catalogs, or HTTP.
package utils

import "strconv"

// AtoiDefault parses s as an int, falling back to def when s is empty or not
// a plain base-10 integer. Handlers use it for query parameters like ?page=
// and ?page_size= where a bad value should mean "use the default", not 400.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
