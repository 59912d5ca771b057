// Package authorization adapts the ambient extension hook points to the
// reserved authorization client port. It carries no policy of its own:
// any actual authorization decision is made by whatever hook a deployment
// registers on HookBeforeAuthorization/HookAfterAuthorization; with nothing
// registered, every mutation is allowed, matching the "policy is external"
// stance of the ambient stack.
package authorization

import (
	"context"

	"go.uber.org/zap"

	"ontology-resolver/application/ports"
	"ontology-resolver/pkg/extensions"
)

// HookClient implements ports.AuthorizationClient by running the mutation
// through the extension registry's authorization hook points.
type HookClient struct {
	hooks  *extensions.HookManager
	logger *zap.Logger
}

func NewHookClient(hooks *extensions.HookManager, logger *zap.Logger) *HookClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HookClient{hooks: hooks, logger: logger}
}

// Authorize implements ports.AuthorizationClient.
func (c *HookClient) Authorize(ctx context.Context, req ports.AuthorizationRequest) error {
	data := extensions.HookData{
		EntityType: string(req.Kind),
		EntityID:   req.URL.String(),
		Operation:  req.Action,
		UserID:     req.Actor.String(),
	}

	if err := c.hooks.Execute(ctx, extensions.HookBeforeAuthorization, data); err != nil {
		return err
	}
	if err := c.hooks.Execute(ctx, extensions.HookAfterAuthorization, data); err != nil {
		return err
	}
	c.logger.Debug("authorization hook passed", zap.String("entity_type", data.EntityType), zap.String("operation", data.Operation))
	return nil
}
