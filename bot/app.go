package bot

import (
	"fmt"
	"time"

	"scribebot/bot/session"
	coreconfig "scribebot/core/config"
	tg "scribebot/core/telegram"
	"scribebot/core/telegram/commands"
	"scribebot/core/telegram/router"
	"scribebot/scratch"
	"scribebot/transcribe"
)

// App wires the conversation flow into the Telegram runtime.
type App struct {
	cfg  *coreconfig.Config
	flow *Flow
}

// New builds the application from validated configuration.
func New(cfg *coreconfig.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config")
	}

	store := scratch.New(cfg.Storage.Dir)
	if err := store.Ensure(); err != nil {
		return nil, fmt.Errorf("bot: scratch init: %w", err)
	}

	stt := transcribe.NewClient(transcribe.Config{
		APIKey:  cfg.Transcribe.APIKey,
		Model:   cfg.Transcribe.Model,
		BaseURL: cfg.Transcribe.BaseURL,
		Timeout: time.Duration(cfg.Transcribe.TimeoutSeconds) * time.Second,
	})

	return &App{
		cfg: cfg,
		flow: &Flow{
			Sessions: session.NewStore(),
			Scratch:  store,
			STT:      stt,
		},
	}, nil
}

// TelegramRunOptions assembles registry, middleware and routes for the runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.onStart,
		Description: "Start or reset the conversation",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.onHelp,
		Description: "Supported formats and usage",
	})

	routes := router.CommandRoutes(reg)
	routes = append(routes, router.MessageRoutes(a.flow.Sessions, reg, router.MessageHandlers{
		Filename: a.onFilename,
		Intake:   a.onFile,
		Unknown:  a.onUnknown,
	})...)

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
	}, nil
}
