package authorization

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/valueobjects"
	"ontology-resolver/pkg/extensions"
)

func testAuthorizationRequest() ports.AuthorizationRequest {
	return ports.AuthorizationRequest{
		Actor:  uuid.New(),
		Kind:   ports.EntityType,
		URL:    valueobjects.VersionedURL{BaseURL: valueobjects.MustBaseURL("https://example.com/types/entity-type/person"), Version: 1},
		Action: "create",
	}
}

func TestHookClient_Authorize_NoHooksRegisteredAllowsByDefault(t *testing.T) {
	hooks := extensions.NewHookManager()
	client := NewHookClient(hooks, nil)

	err := client.Authorize(context.Background(), testAuthorizationRequest())
	assert.NoError(t, err)
}

func TestHookClient_Authorize_RunsBeforeAndAfterHooksInOrder(t *testing.T) {
	hooks := extensions.NewHookManager()
	var order []string

	hooks.Register(extensions.HookBeforeAuthorization, func(ctx context.Context, data interface{}) error {
		order = append(order, "before")
		return nil
	})
	hooks.Register(extensions.HookAfterAuthorization, func(ctx context.Context, data interface{}) error {
		order = append(order, "after")
		return nil
	})

	client := NewHookClient(hooks, nil)
	require.NoError(t, client.Authorize(context.Background(), testAuthorizationRequest()))

	assert.Equal(t, []string{"before", "after"}, order)
}

func TestHookClient_Authorize_BeforeHookFailureShortCircuitsAfterHook(t *testing.T) {
	hooks := extensions.NewHookManager()
	afterRan := false

	hooks.Register(extensions.HookBeforeAuthorization, func(ctx context.Context, data interface{}) error {
		return errors.New("denied")
	})
	hooks.Register(extensions.HookAfterAuthorization, func(ctx context.Context, data interface{}) error {
		afterRan = true
		return nil
	})

	client := NewHookClient(hooks, nil)
	err := client.Authorize(context.Background(), testAuthorizationRequest())

	assert.Error(t, err)
	assert.False(t, afterRan)
}

func TestHookClient_Authorize_PassesRequestFieldsAsHookData(t *testing.T) {
	hooks := extensions.NewHookManager()
	req := testAuthorizationRequest()
	var captured extensions.HookData

	hooks.Register(extensions.HookBeforeAuthorization, func(ctx context.Context, data interface{}) error {
		captured = data.(extensions.HookData)
		return nil
	})

	client := NewHookClient(hooks, nil)
	require.NoError(t, client.Authorize(context.Background(), req))

	assert.Equal(t, string(req.Kind), captured.EntityType)
	assert.Equal(t, req.URL.String(), captured.EntityID)
	assert.Equal(t, req.Action, captured.Operation)
	assert.Equal(t, req.Actor.String(), captured.UserID)
}
