package src

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/shrikebot/shrike/src/dispatch"
	"github.com/shrikebot/shrike/src/gateway"
	"github.com/shrikebot/shrike/src/interactions"
	message "github.com/shrikebot/shrike/src/messages"
	"github.com/shrikebot/shrike/src/rest"
	"github.com/shrikebot/shrike/src/state"
	"github.com/shrikebot/shrike/src/structs"
)

const apiVersion = 10

type ClientArguments struct {
	BotToken   string
	BotIntents []gateway.Intent

	Logger *slog.Logger
}

// Client is the top-level facade: it owns the event dispatcher and the
// object cache, which outlive any single gateway session, plus the
// REST executor and the gateway connection itself.
type Client struct {
	Gateway      *gateway.Gateway
	REST         *rest.REST
	Messages     *message.MessageAPI
	Interactions *interactions.InteractionAPI

	dispatcher *dispatch.Dispatcher
	state      *state.State
	log        *slog.Logger
}

func NewClient(args ClientArguments) *Client {
	log := args.Logger
	if log == nil {
		log = slog.Default()
	}
	httpBaseURL := url.URL{
		Scheme: "https",
		Host:   "discord.com",
		Path:   fmt.Sprintf("/api/v%d", apiVersion),
	}
	dispatcher := dispatch.New(log)
	cache := state.New()
	restClient := rest.NewREST(httpBaseURL.String(), args.BotToken)
	return &Client{
		Gateway: gateway.New(gateway.Options{
			BotToken:   args.BotToken,
			BotIntents: args.BotIntents,
			Dispatcher: dispatcher,
			Cache:      cache,
			Logger:     log,
		}),
		REST:         restClient,
		Messages:     message.New(restClient),
		Interactions: interactions.NewInteractionAPI(restClient),
		dispatcher:   dispatcher,
		state:        cache,
		log:          log,
	}
}

// On registers a handler for a dispatch event under its lower-cased
// name ("message_create", "ready", ...). The returned function removes
// the handler again.
func (c *Client) On(event string, handler dispatch.Handler) (func(), error) {
	return c.dispatcher.Register(event, handler)
}

func (c *Client) Open(ctx context.Context) error {
	return c.Gateway.Open(ctx)
}

func (c *Client) Close() error {
	return c.Gateway.Close()
}

func (c *Client) Ready() bool {
	return c.Gateway.Ready()
}

func (c *Client) CurrentUser() (structs.User, bool) {
	return c.state.CurrentUser()
}

func (c *Client) Guild(id string) (structs.Guild, bool) {
	return c.state.Guild(id)
}

func (c *Client) Guilds() []structs.Guild {
	return c.state.Guilds()
}

func (c *Client) Channel(id string) (structs.Channel, bool) {
	return c.state.Channel(id)
}

// Dispatcher exposes the event dispatcher so other delivery surfaces
// (the interactions webhook) can share it.
func (c *Client) Dispatcher() *dispatch.Dispatcher {
	return c.dispatcher
}
