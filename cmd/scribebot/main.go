package main

import (
	"log"

	"github.com/joho/godotenv"

	"scribebot/bot"
	corecmd "scribebot/core/cmd"
	coreconfig "scribebot/core/config"
)

type configCarrier struct {
	cfg *coreconfig.Config
}

func (c configCarrier) CoreConfig() *coreconfig.Config { return c.cfg }

func main() {
	// Secrets usually live in .env during development; a missing file is fine.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return configCarrier{cfg: cfg}, nil
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.New(carrier.CoreConfig())
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
