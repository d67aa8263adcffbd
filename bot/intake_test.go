package bot

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestResolveAttachmentAudio(t *testing.T) {
	m := &tele.Message{
		Audio: &tele.Audio{
			File:     tele.File{FileID: "f1", UniqueID: "u1"},
			FileName: "Song.MP3",
		},
	}
	att, ok := resolveAttachment(m)
	if !ok {
		t.Fatal("audio message not resolved")
	}
	if att.name != "Song.MP3" {
		t.Errorf("name = %q", att.name)
	}
	if att.ext != ".mp3" {
		t.Errorf("ext = %q, want lowered .mp3", att.ext)
	}
	if att.file.FileID != "f1" {
		t.Errorf("file id = %q", att.file.FileID)
	}
}

func TestResolveAttachmentAudioWithoutName(t *testing.T) {
	m := &tele.Message{
		Audio: &tele.Audio{
			File: tele.File{FileID: "f2", UniqueID: "abc123"},
		},
	}
	att, ok := resolveAttachment(m)
	if !ok {
		t.Fatal("audio message not resolved")
	}
	if att.name != "abc123.mp3" {
		t.Errorf("synthetic name = %q", att.name)
	}
	if att.ext != ".mp3" {
		t.Errorf("ext = %q", att.ext)
	}
}

func TestResolveAttachmentDocument(t *testing.T) {
	m := &tele.Message{
		Document: &tele.Document{
			File:     tele.File{FileID: "f3", UniqueID: "u3"},
			FileName: "meeting.WAV",
		},
	}
	att, ok := resolveAttachment(m)
	if !ok {
		t.Fatal("document message not resolved")
	}
	if att.ext != ".wav" {
		t.Errorf("ext = %q", att.ext)
	}
}

func TestResolveAttachmentDocumentWithoutExtension(t *testing.T) {
	m := &tele.Message{
		Document: &tele.Document{
			File:     tele.File{FileID: "f4", UniqueID: "u4"},
			FileName: "README",
		},
	}
	att, ok := resolveAttachment(m)
	if !ok {
		t.Fatal("document message not resolved")
	}
	if att.ext != "" {
		t.Errorf("ext = %q, want empty (rejected later by intake)", att.ext)
	}
}

func TestResolveAttachmentNone(t *testing.T) {
	if _, ok := resolveAttachment(&tele.Message{Text: "hello"}); ok {
		t.Error("plain text resolved as attachment")
	}
	if _, ok := resolveAttachment(nil); ok {
		t.Error("nil message resolved as attachment")
	}
}
