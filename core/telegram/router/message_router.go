package router

import (
	"time"

	tg "scribebot/core/telegram"
	"scribebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversations reports whether a user has an open conversation awaiting input.
type Conversations interface {
	InProgress(userID int64) bool
}

// MessageHandlers holds the application handlers the router dispatches to.
type MessageHandlers struct {
	// Filename consumes plain text while a conversation awaits an output name.
	Filename tele.HandlerFunc
	// Intake handles audio and document uploads.
	Intake tele.HandlerFunc
	// Unknown answers anything the bot has no use for.
	Unknown tele.HandlerFunc
}

// MessageRoutes builds handlers for text, audio, document and voice updates.
// Exactly one handler runs per update: open conversations capture plain text,
// otherwise text falls through command lookup to the unknown reply.
func MessageRoutes(conv Conversations, reg *tg.Registry, h MessageHandlers) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if conv != nil && h.Filename != nil && conv.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "filename", start, "", "", func() error {
				return h.Filename(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if h.Unknown != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return h.Unknown(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	uploadHandler := func(name string) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			if h.Intake != nil {
				return handleWithSummary(c, name, start, "", "", func() error {
					return h.Intake(c)
				})
			}
			logHandlerSummary(c, name, start, "skip", "ok", nil)
			return nil
		}
	}

	// Voice notes are not part of the upload surface; they get the same
	// reply as any other unusable message.
	voiceHandler := func(c tele.Context) error {
		start := time.Now()
		if h.Unknown != nil {
			return handleWithSummary(c, "unsupported_voice", start, "", "", func() error {
				return h.Unknown(c)
			})
		}
		logHandlerSummary(c, "unsupported_voice", start, "skip", "ok", nil)
		return nil
	}

	wrap := func(fn tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(fn))
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(textHandler)},
		{Endpoint: tele.OnAudio, Handler: wrap(uploadHandler("intake_audio"))},
		{Endpoint: tele.OnDocument, Handler: wrap(uploadHandler("intake_document"))},
		{Endpoint: tele.OnVoice, Handler: wrap(voiceHandler)},
	}
}
