// Package filter selects genuine blog post URLs from raw sitemap entries.
package filter

import "strings"

var (
	DefaultInclude = []string{"/blog/"}
	DefaultExclude = []string{"/wp-content/", "/tag/", "/category/", "/page/", "/in/blog/"}
)

// Filter accepts a URL when it contains every Include marker and none of the
// Exclude markers. Matching is plain substring containment on the whole URL.
type Filter struct {
	Include []string
	Exclude []string
}

func New(include, exclude []string) *Filter {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if exclude == nil {
		exclude = DefaultExclude
	}
	return &Filter{Include: include, Exclude: exclude}
}

func Default() *Filter { return New(nil, nil) }

func (f *Filter) Accept(u string) bool {
	for _, m := range f.Include {
		if !strings.Contains(u, m) {
			return false
		}
	}
	for _, m := range f.Exclude {
		if strings.Contains(u, m) {
			return false
		}
	}
	return true
}

// IsBlogPost applies the default markers.
func IsBlogPost(u string) bool { return defaultFilter.Accept(u) }

var defaultFilter = Default()
