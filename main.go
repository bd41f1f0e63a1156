package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/shrikebot/shrike/src"
	"github.com/shrikebot/shrike/src/gateway"
	"github.com/shrikebot/shrike/src/structs"
	"github.com/shrikebot/shrike/src/utils"
	"github.com/shrikebot/shrike/src/webhook"
)

var signals = []os.Signal{
	os.Interrupt,
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	_ = godotenv.Load()
	cfg := utils.LoadConfiguration()

	logger := slog.New(src.NewLogHandler(os.Stdout, src.LogHandlerOpts{}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	client := src.NewClient(src.ClientArguments{
		BotToken: cfg.BotToken,
		BotIntents: []gateway.Intent{
			gateway.GuildsIntent,
			gateway.GuildMessagesIntent,
			gateway.MessageContentIntent,
		},
		Logger: logger,
	})

	_, err := client.On("ready", func(event string, data json.RawMessage) {
		if user, ok := client.CurrentUser(); ok {
			logger.Info("logged in", "username", user.Username)
		}
	})
	if err != nil {
		logger.Error("failed to register handler", "error", err)
		os.Exit(1)
	}
	_, err = client.On("message_create", func(event string, data json.RawMessage) {
		var message structs.Message
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error("failed to parse message", "error", err)
			return
		}
		logger.Info("message", "author", message.Author.Username, "content", message.Content)
	})
	if err != nil {
		logger.Error("failed to register handler", "error", err)
		os.Exit(1)
	}

	if err := client.Open(ctx); err != nil {
		logger.Error("failed to open gateway", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	if cfg.PublicKey != "" && cfg.WebhookAddress != "" {
		server, err := webhook.NewServer(cfg.PublicKey, client.Dispatcher(), logger)
		if err != nil {
			logger.Error("failed to build webhook server", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := server.StartServer(ctx, cfg.WebhookAddress); err != nil {
				logger.Error("webhook server failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
}
