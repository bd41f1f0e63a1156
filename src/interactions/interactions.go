// Package interactions provides typed methods for responding to
// interactions and managing application commands.
// Source: https://discord.com/developers/docs/interactions/receiving-and-responding
package interactions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shrikebot/shrike/src/rest"
	"github.com/shrikebot/shrike/src/structs"
)

type InteractionAPI struct {
	rest *rest.REST
}

func NewInteractionAPI(rest *rest.REST) *InteractionAPI {
	return &InteractionAPI{rest: rest}
}

// Reply sends the initial response to an interaction. An interaction
// token stays valid for 15 minutes after delivery.
func (i *InteractionAPI) Reply(ctx context.Context, interactionID string, interactionToken string, response structs.InteractionResponse) error {
	path := fmt.Sprintf("/interactions/%s/%s/callback", interactionID, interactionToken)
	_, err := i.rest.Post(ctx, path, response, nil)
	return err
}

func (i *InteractionAPI) originalResponsePath(applicationID string, interactionToken string) string {
	return fmt.Sprintf("/webhooks/%s/%s/messages/@original", applicationID, interactionToken)
}

func (i *InteractionAPI) GetOriginal(ctx context.Context, applicationID string, interactionToken string) (*structs.Message, error) {
	res, err := i.rest.Get(ctx, i.originalResponsePath(applicationID, interactionToken), nil)
	if err != nil {
		return nil, err
	}
	msg := &structs.Message{}
	if err := json.Unmarshal(res, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// EditOriginal rewrites the initial response. This is how a deferred
// acknowledgement gets its actual content.
func (i *InteractionAPI) EditOriginal(ctx context.Context, applicationID string, interactionToken string, data structs.InteractionResponseDataMessage) (*structs.Message, error) {
	res, err := i.rest.Patch(ctx, i.originalResponsePath(applicationID, interactionToken), data, nil)
	if err != nil {
		return nil, err
	}
	msg := &structs.Message{}
	if err := json.Unmarshal(res, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (i *InteractionAPI) DeleteOriginal(ctx context.Context, applicationID string, interactionToken string) error {
	_, err := i.rest.Delete(ctx, i.originalResponsePath(applicationID, interactionToken), nil)
	return err
}
