package bot

import (
	"path/filepath"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// attachment is the audio payload extracted from an incoming message.
type attachment struct {
	file tele.File
	name string
	ext  string
}

// resolveAttachment pulls the downloadable audio out of a message. Audio
// messages may arrive without a filename (forwards, voice-memo apps); those
// get a synthetic mp3 name from the file's unique id, matching how Telegram
// itself labels bare audio. Messages carrying neither audio nor a document
// yield ok=false.
func resolveAttachment(m *tele.Message) (attachment, bool) {
	if m == nil {
		return attachment{}, false
	}

	switch {
	case m.Audio != nil:
		name := m.Audio.FileName
		if name == "" {
			name = m.Audio.UniqueID + ".mp3"
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" {
			ext = ".mp3"
		}
		return attachment{file: m.Audio.File, name: name, ext: ext}, true

	case m.Document != nil:
		name := m.Document.FileName
		if name == "" {
			name = m.Document.UniqueID
		}
		ext := strings.ToLower(filepath.Ext(name))
		return attachment{file: m.Document.File, name: name, ext: ext}, true
	}

	return attachment{}, false
}
