package bot

import (
	"context"
	"log/slog"
	"strings"

	"scribebot/bot/session"
	"scribebot/core/logger"
	"scribebot/scratch"
)

// Replier delivers outbound messages for one conversation turn.
type Replier interface {
	Text(msg string) error
	Document(path, filename string) error
}

// Transcriber converts a local audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, inputPath string) (string, error)
}

// Flow runs the conversation cycle: intake of an upload, then transcript
// delivery once the user names the output. It holds no transport state, so
// every step is driven through the Replier and a download closure.
type Flow struct {
	Sessions *session.Store
	Scratch  *scratch.Storage
	STT      Transcriber
}

// Intake validates and stores an uploaded audio file, then asks for the
// output filename. A rejected upload leaves no session and no files behind.
func (f *Flow) Intake(ctx context.Context, userID int64, name, ext string, download func(dst string) error, r Replier) error {
	if !scratch.SupportedExt(ext) {
		logger.Info(ctx, "bot", "intake.rejected",
			slog.String("file", name),
			slog.String("ext", ext),
		)
		if err := r.Text(msgUnsupportedFormat); err != nil {
			return err
		}
		return &UnsupportedFormatError{Ext: ext}
	}

	if err := f.Scratch.Ensure(); err != nil {
		return f.fail(ctx, r, "intake.scratch", err)
	}

	dst := f.Scratch.NewInputPath(ext)
	if err := download(dst); err != nil {
		// A partial download may have left the file behind.
		f.removeQuiet(ctx, dst)
		return f.fail(ctx, r, "intake.download", &scratch.Error{Op: "download", Path: dst, Err: err})
	}

	if prev, replaced := f.Sessions.Begin(userID, dst); replaced {
		// The user re-uploaded before naming the first file; the newer
		// upload wins and the displaced input must not leak.
		f.removeQuiet(ctx, prev)
		logger.Info(ctx, "bot", "intake.replaced",
			slog.String("file", name),
			slog.String("state", string(session.StateAwaitingFilename)),
		)
	}

	logger.Info(ctx, "bot", "intake.accepted",
		slog.String("file", name),
		slog.String("ext", ext),
		slog.String("state", string(session.StateAwaitingFilename)),
	)
	return r.Text(msgAskFilename)
}

// Deliver claims the user's session, transcribes the stored audio and sends
// the transcript back as a document named rawName (normalized to .txt).
// Scratch files are removed on every exit path; the conversation always ends
// idle because Take already dropped the session.
func (f *Flow) Deliver(ctx context.Context, userID int64, rawName string, r Replier) error {
	// Command-shaped text is never a filename. The session stays open so the
	// user can still name the file, or /start to reset.
	if strings.HasPrefix(strings.TrimSpace(rawName), "/") {
		return r.Text(msgFilenameIsCommand)
	}

	sess, ok := f.Sessions.Take(userID)
	if !ok {
		if err := r.Text(msgNoSession); err != nil {
			return err
		}
		return &NoSessionError{UserID: userID}
	}

	// The on-disk location derives from the uuid input name, so two users
	// picking the same output name never share a file; outName only travels
	// as the document's user-facing filename.
	outName := scratch.NormalizeTxtName(rawName)
	outPath := f.Scratch.TranscriptPath(sess.InputPath)

	defer func() {
		f.removeQuiet(ctx, sess.InputPath)
		f.removeQuiet(ctx, outPath)
	}()

	if err := r.Text(msgStarting); err != nil {
		return err
	}

	text, err := f.STT.Transcribe(ctx, sess.InputPath)
	if err != nil {
		return f.fail(ctx, r, "deliver.transcribe", err)
	}

	if err := f.Scratch.WriteFile(outPath, []byte(text)); err != nil {
		return f.fail(ctx, r, "deliver.write", err)
	}

	if err := r.Document(outPath, outName); err != nil {
		return f.fail(ctx, r, "deliver.send", err)
	}

	logger.Info(ctx, "bot", "deliver.done",
		slog.String("output", outName),
		slog.Int("chars", len(text)),
	)
	return r.Text(msgDone)
}

// Abandon drops the user's open conversation, if any, together with its
// stored input file. Used by /start to reset mid-conversation.
func (f *Flow) Abandon(ctx context.Context, userID int64) {
	sess, ok := f.Sessions.Take(userID)
	if !ok {
		return
	}
	f.removeQuiet(ctx, sess.InputPath)
	logger.Info(ctx, "bot", "session.abandoned",
		slog.String("file", sess.InputPath),
	)
}

// fail logs the failure, tells the user, and propagates the error so the
// router summary carries its code.
func (f *Flow) fail(ctx context.Context, r Replier, event string, err error) error {
	logger.Error(ctx, "bot", event,
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	if sendErr := r.Text(msgFailed); sendErr != nil {
		logger.Error(ctx, "bot", event+".reply",
			slog.String("err", sendErr.Error()),
		)
	}
	return err
}

func (f *Flow) removeQuiet(ctx context.Context, path string) {
	if err := f.Scratch.Remove(path); err != nil {
		logger.Warn(ctx, "bot", "scratch.cleanup",
			slog.String("file", path),
			slog.String("err", err.Error()),
		)
	}
}
