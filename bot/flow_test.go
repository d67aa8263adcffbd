package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"scribebot/bot/session"
	"scribebot/scratch"
)

type fakeReplier struct {
	texts []string
	docs  []sentDoc
}

type sentDoc struct {
	filename string
	content  string
}

func (r *fakeReplier) Text(msg string) error {
	r.texts = append(r.texts, msg)
	return nil
}

// Document reads the file eagerly, like a real upload would, so the test can
// assert on content even after deferred cleanup runs.
func (r *fakeReplier) Document(path, filename string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r.docs = append(r.docs, sentDoc{filename: filename, content: string(data)})
	return nil
}

type fakeSTT struct {
	text  string
	err   error
	calls int
}

func (s *fakeSTT) Transcribe(_ context.Context, inputPath string) (string, error) {
	s.calls++
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("input missing at transcription time: %w", err)
	}
	return s.text, s.err
}

func newTestFlow(t *testing.T, stt *fakeSTT) *Flow {
	t.Helper()
	return &Flow{
		Sessions: session.NewStore(),
		Scratch:  scratch.New(t.TempDir()),
		STT:      stt,
	}
}

func download(payload string) func(string) error {
	return func(dst string) error {
		return os.WriteFile(dst, []byte(payload), 0o644)
	}
}

func scratchCount(t *testing.T, f *Flow) int {
	t.Helper()
	entries, err := os.ReadDir(f.Scratch.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatal(err)
	}
	return len(entries)
}

func TestFullCycle(t *testing.T) {
	stt := &fakeSTT{text: "it was a dark and stormy night"}
	f := newTestFlow(t, stt)
	r := &fakeReplier{}
	ctx := context.Background()

	if err := f.Intake(ctx, 42, "song.mp3", ".mp3", download("audio-bytes"), r); err != nil {
		t.Fatalf("Intake: %v", err)
	}
	if got := f.Sessions.StateOf(42); got != session.StateAwaitingFilename {
		t.Fatalf("state after intake = %q", got)
	}
	if len(r.texts) != 1 || r.texts[0] != msgAskFilename {
		t.Fatalf("intake replies = %q", r.texts)
	}

	if err := f.Deliver(ctx, 42, "notes", r); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if len(r.docs) != 1 {
		t.Fatalf("documents sent = %d", len(r.docs))
	}
	if r.docs[0].filename != "notes.txt" {
		t.Errorf("document name = %q", r.docs[0].filename)
	}
	if r.docs[0].content != "it was a dark and stormy night" {
		t.Errorf("document content = %q", r.docs[0].content)
	}
	if last := r.texts[len(r.texts)-1]; last != msgDone {
		t.Errorf("final reply = %q", last)
	}

	if f.Sessions.Len() != 0 {
		t.Error("store not empty after delivery")
	}
	if n := scratchCount(t, f); n != 0 {
		t.Errorf("%d scratch files left after delivery", n)
	}
}

func TestIntakeRejectsUnsupportedExtension(t *testing.T) {
	stt := &fakeSTT{}
	f := newTestFlow(t, stt)
	r := &fakeReplier{}

	err := f.Intake(context.Background(), 42, "clip.xyz", ".xyz", download("junk"), r)

	var ferr *UnsupportedFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
	if ferr.Code() != "UNSUPPORTED_FORMAT" {
		t.Errorf("Code() = %q", ferr.Code())
	}
	if len(r.texts) != 1 || r.texts[0] != msgUnsupportedFormat {
		t.Errorf("replies = %q", r.texts)
	}
	if f.Sessions.Len() != 0 {
		t.Error("rejected upload created a session")
	}
	if n := scratchCount(t, f); n != 0 {
		t.Errorf("rejected upload left %d scratch files", n)
	}
}

func TestDeliverCleansUpWhenTranscriptionFails(t *testing.T) {
	stt := &fakeSTT{err: errors.New("model overloaded")}
	f := newTestFlow(t, stt)
	r := &fakeReplier{}
	ctx := context.Background()

	if err := f.Intake(ctx, 42, "voice.ogg", ".ogg", download("oggdata"), r); err != nil {
		t.Fatalf("Intake: %v", err)
	}

	err := f.Deliver(ctx, 42, "talk", r)
	if err == nil {
		t.Fatal("expected transcription failure to propagate")
	}
	if last := r.texts[len(r.texts)-1]; last != msgFailed {
		t.Errorf("final reply = %q", last)
	}
	if len(r.docs) != 0 {
		t.Error("document sent despite failure")
	}
	if f.Sessions.Len() != 0 {
		t.Error("store not empty after failed delivery")
	}
	if n := scratchCount(t, f); n != 0 {
		t.Errorf("%d scratch files left after failed delivery", n)
	}
}

func TestDeliverWithoutSession(t *testing.T) {
	stt := &fakeSTT{text: "never used"}
	f := newTestFlow(t, stt)
	r := &fakeReplier{}

	err := f.Deliver(context.Background(), 42, "notes", r)

	var serr *NoSessionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected NoSessionError, got %v", err)
	}
	if serr.Code() != "NO_ACTIVE_SESSION" {
		t.Errorf("Code() = %q", serr.Code())
	}
	if stt.calls != 0 {
		t.Error("transcriber must not run without a session")
	}
	if len(r.texts) != 1 || r.texts[0] != msgNoSession {
		t.Errorf("replies = %q", r.texts)
	}
}

func TestCommandTextIsNotAFilename(t *testing.T) {
	stt := &fakeSTT{text: "transcript"}
	f := newTestFlow(t, stt)
	r := &fakeReplier{}
	ctx := context.Background()

	if err := f.Intake(ctx, 42, "song.mp3", ".mp3", download("audio"), r); err != nil {
		t.Fatalf("Intake: %v", err)
	}

	if err := f.Deliver(ctx, 42, "/cancel", r); err != nil {
		t.Fatalf("Deliver with command text: %v", err)
	}
	if stt.calls != 0 {
		t.Error("command text reached the transcriber")
	}
	if len(r.docs) != 0 {
		t.Error("command text produced a document")
	}
	if last := r.texts[len(r.texts)-1]; last != msgFilenameIsCommand {
		t.Errorf("reply = %q", last)
	}
	if !f.Sessions.InProgress(42) {
		t.Fatal("command text consumed the session")
	}

	// A real filename afterwards still completes the conversation.
	if err := f.Deliver(ctx, 42, "notes", r); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if len(r.docs) != 1 || r.docs[0].filename != "notes.txt" {
		t.Fatalf("documents = %+v", r.docs)
	}
	if f.Sessions.Len() != 0 || scratchCount(t, f) != 0 {
		t.Error("state left behind after delivery")
	}
}

// interleaveReplier runs a hook right before the document send, standing in
// for another user's handler goroutine getting scheduled at that point.
type interleaveReplier struct {
	fakeReplier
	beforeDocument func()
}

func (r *interleaveReplier) Document(path, filename string) error {
	if r.beforeDocument != nil {
		hook := r.beforeDocument
		r.beforeDocument = nil
		hook()
	}
	return r.fakeReplier.Document(path, filename)
}

func TestSameOutputNameDoesNotCollide(t *testing.T) {
	stt := &fakeSTT{text: "transcript"}
	f := newTestFlow(t, stt)
	ctx := context.Background()

	if err := f.Intake(ctx, 1, "a.mp3", ".mp3", download("alice"), &fakeReplier{}); err != nil {
		t.Fatalf("Intake user 1: %v", err)
	}
	if err := f.Intake(ctx, 2, "b.ogg", ".ogg", download("bob"), &fakeReplier{}); err != nil {
		t.Fatalf("Intake user 2: %v", err)
	}

	// User 2 completes an entire delivery for the same output name while
	// user 1 is between transcript write and document send.
	rB := &fakeReplier{}
	rA := &interleaveReplier{
		beforeDocument: func() {
			if err := f.Deliver(ctx, 2, "notes", rB); err != nil {
				t.Errorf("Deliver user 2: %v", err)
			}
		},
	}

	if err := f.Deliver(ctx, 1, "notes", rA); err != nil {
		t.Fatalf("Deliver user 1: %v", err)
	}

	if len(rA.docs) != 1 || len(rB.docs) != 1 {
		t.Fatalf("documents sent: A=%d B=%d, want 1 each", len(rA.docs), len(rB.docs))
	}
	if rA.docs[0].filename != "notes.txt" || rB.docs[0].filename != "notes.txt" {
		t.Errorf("document names = %q, %q", rA.docs[0].filename, rB.docs[0].filename)
	}
	if f.Sessions.Len() != 0 || scratchCount(t, f) != 0 {
		t.Error("state left behind after both deliveries")
	}
}

func TestSecondUploadReplacesFirst(t *testing.T) {
	stt := &fakeSTT{text: "second file transcript"}
	f := newTestFlow(t, stt)
	r := &fakeReplier{}
	ctx := context.Background()

	if err := f.Intake(ctx, 42, "first.mp3", ".mp3", download("first"), r); err != nil {
		t.Fatalf("first Intake: %v", err)
	}
	if err := f.Intake(ctx, 42, "second.wav", ".wav", download("second"), r); err != nil {
		t.Fatalf("second Intake: %v", err)
	}

	// Only the newer input may remain.
	if n := scratchCount(t, f); n != 1 {
		t.Fatalf("%d scratch files after re-upload, want 1", n)
	}

	if err := f.Deliver(ctx, 42, "out", r); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if r.docs[0].content != "second file transcript" {
		t.Errorf("delivered content = %q", r.docs[0].content)
	}
	if n := scratchCount(t, f); n != 0 {
		t.Errorf("%d scratch files left", n)
	}
}

func TestAbandonDropsSessionAndInput(t *testing.T) {
	stt := &fakeSTT{}
	f := newTestFlow(t, stt)
	r := &fakeReplier{}
	ctx := context.Background()

	if err := f.Intake(ctx, 42, "song.mp3", ".mp3", download("audio"), r); err != nil {
		t.Fatalf("Intake: %v", err)
	}

	f.Abandon(ctx, 42)

	if f.Sessions.InProgress(42) {
		t.Error("session survived abandon")
	}
	if n := scratchCount(t, f); n != 0 {
		t.Errorf("%d scratch files left after abandon", n)
	}

	// Abandoning with nothing open is a no-op.
	f.Abandon(ctx, 42)
}

func TestUsersDoNotShareSessions(t *testing.T) {
	stt := &fakeSTT{text: "transcript"}
	f := newTestFlow(t, stt)
	rAlice := &fakeReplier{}
	rBob := &fakeReplier{}
	ctx := context.Background()

	if err := f.Intake(ctx, 1, "a.mp3", ".mp3", download("alice"), rAlice); err != nil {
		t.Fatalf("Intake alice: %v", err)
	}
	if err := f.Intake(ctx, 2, "b.ogg", ".ogg", download("bob"), rBob); err != nil {
		t.Fatalf("Intake bob: %v", err)
	}

	if err := f.Deliver(ctx, 1, "alice-notes", rAlice); err != nil {
		t.Fatalf("Deliver alice: %v", err)
	}
	if !f.Sessions.InProgress(2) {
		t.Fatal("delivering for user 1 consumed user 2's session")
	}
	if err := f.Deliver(ctx, 2, "bob-notes", rBob); err != nil {
		t.Fatalf("Deliver bob: %v", err)
	}

	if rAlice.docs[0].filename != "alice-notes.txt" || rBob.docs[0].filename != "bob-notes.txt" {
		t.Errorf("document names = %q, %q", rAlice.docs[0].filename, rBob.docs[0].filename)
	}
	if f.Sessions.Len() != 0 || scratchCount(t, f) != 0 {
		t.Error("state left behind after both deliveries")
	}
}
