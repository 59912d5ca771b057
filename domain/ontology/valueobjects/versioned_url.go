package valueobjects

import (
	"fmt"

	appErrors "ontology-resolver/pkg/errors"
)

// VersionedURL identifies one specific version of one type: (base_url, version).
// Version is monotonically increasing per base_url, starting at 1.
type VersionedURL struct {
	BaseURL BaseURL
	Version uint32
}

// NewVersionedURL validates version and wraps it with base.
func NewVersionedURL(base BaseURL, version uint32) (VersionedURL, error) {
	if version == 0 {
		return VersionedURL{}, appErrors.NewValidationError("version must be a positive integer")
	}
	return VersionedURL{BaseURL: base, Version: version}, nil
}

func (v VersionedURL) String() string {
	return fmt.Sprintf("%s/v/%d", v.BaseURL.String(), v.Version)
}

func (v VersionedURL) Equals(other VersionedURL) bool {
	return v.BaseURL.Equals(other.BaseURL) && v.Version == other.Version
}

func (v VersionedURL) IsZero() bool {
	return v.BaseURL.IsZero() && v.Version == 0
}
