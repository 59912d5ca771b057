// Package filters supplies the thin ports.Filter implementations the HTTP
// layer needs to express the handful of predicates a caller can submit
// without a query language: exact base url, exact versioned url, and "every
// version under this base url". A full filter-compiler with its own query
// language is out of scope — these are hand-built predicates, not a parser.
package filters

import "ontology-resolver/domain/ontology/valueobjects"

// ExactVersionedURL matches one specific (base_url, version) pair.
type ExactVersionedURL struct {
	Target valueobjects.VersionedURL
}

func (f ExactVersionedURL) Matches(url valueobjects.VersionedURL) bool {
	return url.Equals(f.Target)
}

// ExactBaseURL matches every version of a single base url, the predicate
// behind "give me whatever version of this type is visible on the query's
// temporal axis".
type ExactBaseURL struct {
	Target valueobjects.BaseURL
}

func (f ExactBaseURL) Matches(url valueobjects.VersionedURL) bool {
	return url.BaseURL.Equals(f.Target)
}

// AnyOfBaseURLs matches any of a fixed set of base urls, the predicate
// behind a batch lookup by a caller-supplied id list.
type AnyOfBaseURLs struct {
	Targets []valueobjects.BaseURL
}

func (f AnyOfBaseURLs) Matches(url valueobjects.VersionedURL) bool {
	for _, target := range f.Targets {
		if url.BaseURL.Equals(target) {
			return true
		}
	}
	return false
}
