// Package splitarg implements the Argument Splitter (spec.md §4.3):
// splitting a call site's raw search argument into (filename, keyquery)
// according to the resolved driver's style.
package splitarg

import (
	"strings"

	"github.com/ncobase/lookup/driver"
)

// Split returns the filename/key pair per spec.md §4.3's table. key is the
// separately supplied key string for single-key-file drivers (§4.3
// requires it be passed in rather than parsed out of raw).
func Split(style driver.Style, raw, key, opts string) (filename, keyquery string) {
	switch style {
	case driver.StyleSingleKeyFile:
		return raw, key

	case driver.StyleAbsFileQuery:
		q := strings.TrimLeft(raw, " \t")
		if path, ok := fileFromOpts(opts); ok {
			return path, q
		}
		if strings.HasPrefix(q, "/") {
			i := strings.IndexAny(q, " \t")
			if i < 0 {
				return q, ""
			}
			return q[:i], strings.TrimLeft(q[i:], " \t")
		}
		return "", q

	default: // StyleQuery
		return "", strings.TrimLeft(raw, " \t")
	}
}

// fileFromOpts looks for a "file=PATH" clause among opts' comma-separated entries.
func fileFromOpts(opts string) (string, bool) {
	if opts == "" {
		return "", false
	}
	for _, part := range strings.Split(opts, ",") {
		if v, ok := strings.CutPrefix(part, "file="); ok {
			return v, true
		}
	}
	return "", false
}
