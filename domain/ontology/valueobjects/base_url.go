// Package valueobjects defines the identifier and bookkeeping value types
// shared by every component of the ontology resolver: base URLs, versioned
// URLs, ontology ids, temporal intervals, edge kinds, and resolve-depth
// budgets. None of these types own a database connection or perform I/O.
package valueobjects

import (
	"encoding/json"
	"net/url"

	appErrors "ontology-resolver/pkg/errors"
)

// BaseURL is an absolute URL with no fragment, the stable per-type identity
// that versions are allocated against.
type BaseURL struct {
	value string
}

// NewBaseURL validates raw and returns the wrapped value.
func NewBaseURL(raw string) (BaseURL, error) {
	if raw == "" {
		return BaseURL{}, appErrors.NewValidationError("base url must not be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return BaseURL{}, appErrors.NewValidationError("base url is not a valid url").WithCause(err)
	}
	if !parsed.IsAbs() {
		return BaseURL{}, appErrors.NewValidationError("base url must be absolute")
	}
	if parsed.Fragment != "" {
		return BaseURL{}, appErrors.NewValidationError("base url must not contain a fragment")
	}
	return BaseURL{value: raw}, nil
}

// MustBaseURL panics on invalid input; for table-driven tests and fixtures.
func MustBaseURL(raw string) BaseURL {
	b, err := NewBaseURL(raw)
	if err != nil {
		panic(err)
	}
	return b
}

func (b BaseURL) String() string {
	return b.value
}

func (b BaseURL) Equals(other BaseURL) bool {
	return b.value == other.value
}

func (b BaseURL) IsZero() bool {
	return b.value == ""
}

func (b BaseURL) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.value)
}

func (b *BaseURL) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewBaseURL(raw)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
