package valueobjects

import "time"

// VertexID identifies a position in the subgraph independent of version: the
// base url plus the timestamp on the query's variable time axis. It is
// deliberately not a VersionedURL — two different versions of the same type
// can be visible at different timestamps and still share identity at the
// VertexID level when the timestamp resolves to the same row.
//
// VertexID is a plain comparable struct, usable directly as a map key; it is
// a value-typed key, never an ownership handle into the subgraph.
type VertexID struct {
	BaseURL   BaseURL
	Timestamp time.Time
}

func NewVertexID(base BaseURL, timestamp time.Time) VertexID {
	return VertexID{BaseURL: base, Timestamp: timestamp.UTC()}
}

func (v VertexID) Equals(other VertexID) bool {
	return v.BaseURL.Equals(other.BaseURL) && v.Timestamp.Equal(other.Timestamp)
}
