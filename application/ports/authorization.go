package ports

import (
	"context"

	"github.com/google/uuid"

	"ontology-resolver/domain/ontology/valueobjects"
)

// AuthorizationRequest describes one mutation that must be surfaced to the
// authorization layer exactly once, on commit. Kind/URL identify the record
// the mutation touched; Action is the verb ("create", "update", "archive",
// "unarchive") so the authorization store can key its own tuple.
type AuthorizationRequest struct {
	Actor  uuid.UUID
	Kind   TypeKind
	URL    valueobjects.VersionedURL
	Action string
}

// AuthorizationClient is the reserved authorization hook every mutating
// command commits through. Its policy is external to this module; Authorize
// only needs to durably record that Actor performed Action on the record
// addressed by Kind/URL.
type AuthorizationClient interface {
	Authorize(ctx context.Context, req AuthorizationRequest) error
}

// NoopAuthorizationClient satisfies AuthorizationClient without contacting
// any external policy store. It is the default wiring until a real
// authorization backend is configured, matching the ambient stance that
// authorization policy is external and optional at this layer.
type NoopAuthorizationClient struct{}

func (NoopAuthorizationClient) Authorize(ctx context.Context, req AuthorizationRequest) error {
	return nil
}
