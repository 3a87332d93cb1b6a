package lumenbot

import (
	"os"
	"time"
	_ "time/tzdata"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

const (
	BotTokenEnv   = "LUMEN_BOT_TOKEN"
	BotOwnerEnv   = "LUMEN_OWNER_ID"
	LogWebhookEnv = "LUMEN_LOG_WEBHOOK"
	TimezoneEnv   = "TZ"
	Intents       = discordgo.IntentsAll
)

var (
	getBotToken   = func() string { return "" }
	getOwnerID    = func() string { return "" }
	getLogWebhook = func() string { return "" }
	getTimezone   = func() string { return "" }
)

// Retrieves the bot's auth token and friends from the environment
func init() {
	// This will only add new environment variables,
	// and will NOT overwrite existing ones.
	_ = godotenv.Load( /*.env by default*/ )

	token, tokenFound := os.LookupEnv(BotTokenEnv)
	if !tokenFound {
		log.Fatalf("%s not found in environment", BotTokenEnv)
	} else if token == "" {
		log.Fatalf("%s is the empty string", BotTokenEnv)
	}
	getBotToken = func() string { return token }

	owner, ownerFound := os.LookupEnv(BotOwnerEnv)
	if !ownerFound {
		log.Warnf("%s not found in environment. Owner-only commands will be ignored.", BotOwnerEnv)
	} else if owner == "" {
		log.Warnf("%s is the empty string. Owner-only commands will be ignored.", BotOwnerEnv)
	}
	getOwnerID = func() string { return owner }

	webhook, webhookFound := os.LookupEnv(LogWebhookEnv)
	if !webhookFound || webhook == "" {
		log.Warnf("%s not set. Log entries will not be mirrored to Discord.", LogWebhookEnv)
	}
	getLogWebhook = func() string { return webhook }

	tz, tzFound := os.LookupEnv(TimezoneEnv)
	if !tzFound || tz == "" {
		log.Warnf("%s not found in environment", TimezoneEnv)
	} else {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			log.Error(err)
		} else {
			time.Local = loc
		}
	}
	getTimezone = func() string { return time.Local.String() }
	log.Infof("Using timezone: %s", getTimezone())
}
