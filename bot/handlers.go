package bot

import (
	tghelpers "scribebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// teleReplier adapts a tele.Context to the flow's Replier. Text replies go
// through the async sender; documents are sent inline because their backing
// file is removed when the handler returns.
type teleReplier struct {
	c tele.Context
}

func (r teleReplier) Text(msg string) error {
	return tghelpers.SendText(r.c, msg)
}

func (r teleReplier) Document(path, filename string) error {
	return tghelpers.SendDocument(r.c, path, filename)
}

func (a *App) onStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	a.flow.Abandon(ctx, c.Sender().ID)
	return tghelpers.SendText(c, msgWelcome)
}

func (a *App) onHelp(c tele.Context) error {
	return tghelpers.SendText(c, msgHelp)
}

func (a *App) onFile(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	att, ok := resolveAttachment(c.Message())
	if !ok {
		return tghelpers.SendText(c, msgSendFile)
	}

	file := att.file
	download := func(dst string) error {
		return c.Bot().Download(&file, dst)
	}
	return a.flow.Intake(ctx, c.Sender().ID, att.name, att.ext, download, teleReplier{c})
}

func (a *App) onFilename(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return a.flow.Deliver(ctx, c.Sender().ID, c.Text(), teleReplier{c})
}

func (a *App) onUnknown(c tele.Context) error {
	return tghelpers.SendText(c, msgSendFile)
}
