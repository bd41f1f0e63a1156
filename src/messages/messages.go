// Package message provides typed methods over the messages resource.
// Source: https://discord.com/developers/docs/resources/message
package message

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shrikebot/shrike/src/rest"
	"github.com/shrikebot/shrike/src/structs"
)

type MessageAPI struct {
	rest *rest.REST
}

func New(rest *rest.REST) *MessageAPI {
	return &MessageAPI{
		rest: rest,
	}
}

type CreateMessageData struct {
	Content          string `json:"content"`
	TTS              bool   `json:"tts,omitempty"`
	Nonce            any    `json:"nonce,omitempty"` // Use nonce to verify a message was sent.
	Embeds           any    `json:"embeds,omitempty"`
	AllowedMentions  any    `json:"allowed_mentions,omitempty"`
	MessageReference any    `json:"message_reference,omitempty"`
}

func (m *MessageAPI) CreateMessage(ctx context.Context, channelID string, data CreateMessageData) (*structs.Message, error) {
	res, err := m.rest.Post(ctx, fmt.Sprintf("/channels/%s/messages", channelID), data, nil)
	if err != nil {
		return nil, err
	}
	msg := &structs.Message{}
	if err := json.Unmarshal(res, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

type EditMessageData struct {
	Content string `json:"content,omitempty"`
	Embeds  any    `json:"embeds,omitempty"`
}

func (m *MessageAPI) EditMessage(ctx context.Context, channelID string, messageID string, data EditMessageData) (*structs.Message, error) {
	res, err := m.rest.Patch(ctx, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), data, nil)
	if err != nil {
		return nil, err
	}
	msg := &structs.Message{}
	if err := json.Unmarshal(res, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *MessageAPI) GetMessage(ctx context.Context, channelID string, messageID string) (*structs.Message, error) {
	res, err := m.rest.Get(ctx, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), nil)
	if err != nil {
		return nil, err
	}
	msg := &structs.Message{}
	if err := json.Unmarshal(res, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m *MessageAPI) DeleteMessage(ctx context.Context, channelID string, messageID string, options *rest.Options) error {
	_, err := m.rest.Delete(ctx, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), options)
	return err
}
