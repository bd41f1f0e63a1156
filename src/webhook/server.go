// Package webhook serves the HTTP interactions endpoint. Interactions
// delivered over the webhook flow into the same event dispatcher as
// gateway dispatches, under the "interaction_create" event name.
package webhook

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/shrikebot/shrike/src/dispatch"
	"github.com/shrikebot/shrike/src/structs"
)

type Server struct {
	router     *fiber.App
	publicKey  ed25519.PublicKey
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
}

func NewServer(publicKeyHex string, dispatcher *dispatch.Dispatcher, log *slog.Logger) (*Server, error) {
	publicKey, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey))
	}
	if log == nil {
		log = slog.Default()
	}
	server := &Server{
		publicKey:  ed25519.PublicKey(publicKey),
		dispatcher: dispatcher,
		log:        log,
	}
	server.setupRouter()
	return server, nil
}

func (server *Server) setupRouter() {
	router := fiber.New()
	router.Use("/", server.VerifyKeyMiddleware)
	router.Post("/interactions", func(c fiber.Ctx) error {
		interaction := new(structs.Interaction)
		if err := c.Bind().JSON(interaction); err != nil {
			server.log.Error("failed to parse interaction", "error", err)
			return c.Status(http.StatusBadRequest).SendString("bad request")
		}
		if interaction.Type == structs.InteractionTypePing {
			return c.JSON(structs.InteractionResponse{
				Type: structs.InteractionResponseTypePong,
			})
		}
		if server.dispatcher != nil {
			data := make(json.RawMessage, len(c.BodyRaw()))
			copy(data, c.BodyRaw())
			server.dispatcher.Fire("interaction_create", data)
		}
		// Ack now, reply later through the interactions REST surface.
		return c.JSON(structs.InteractionResponse{
			Type: structs.InteractionResponseTypeDeferredChannelMessageWithSource,
		})
	})
	server.router = router
}

func (server *Server) StartServer(ctx context.Context, addr string) error {
	server.log.Info("webhook server starting", "addr", addr)
	return server.router.Listen(addr, fiber.ListenConfig{
		GracefulContext: ctx,
		OnShutdownSuccess: func() {
			server.log.Info("webhook server stopped")
		},
	})
}
