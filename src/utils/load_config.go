package utils

import (
	"fmt"
	"log/slog"
	"os"
)

type AppConfig struct {
	BotToken       string
	ApplicationID  string
	PublicKey      string
	WebhookAddress string
	AppEnv         string
}

// LoadConfiguration reads the process environment. Only the bot token
// is mandatory; the webhook settings matter when the interactions
// endpoint is served.
func LoadConfiguration() AppConfig {
	cfg := AppConfig{}
	requiredEnv := map[string]*string{
		"BOT_TOKEN": &cfg.BotToken,
	}
	for k, v := range requiredEnv {
		if val, ok := os.LookupEnv(k); !ok {
			slog.Error(fmt.Sprintf("Provide: %s", k))
			os.Exit(1)
		} else {
			*v = val
		}
	}
	cfg.ApplicationID = os.Getenv("APPLICATION_ID")
	cfg.PublicKey = os.Getenv("PUBLIC_KEY")
	cfg.WebhookAddress = os.Getenv("WEBHOOK_ADDRESS")
	cfg.AppEnv = os.Getenv("APP_ENV")
	return cfg
}
