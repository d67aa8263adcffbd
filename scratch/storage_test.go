package scratch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSupportedExt(t *testing.T) {
	for _, ext := range []string{".flac", ".m4a", ".mp3", ".mp4", ".mpeg", ".mpga", ".oga", ".ogg", ".wav", ".webm"} {
		if !SupportedExt(ext) {
			t.Errorf("SupportedExt(%q) = false, want true", ext)
		}
	}
	if !SupportedExt(".MP3") || !SupportedExt(".Ogg") {
		t.Error("extension matching must be case-insensitive")
	}
	for _, ext := range []string{".xyz", ".txt", ".pdf", "", "mp3"} {
		if SupportedExt(ext) {
			t.Errorf("SupportedExt(%q) = true, want false", ext)
		}
	}
}

func TestNormalizeTxtName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"notes", "notes.txt"},
		{"notes.txt", "notes.txt"},
		{"Notes.TXT", "Notes.TXT"},
		{"  meeting  ", "meeting.txt"},
		{"../../etc/passwd", "passwd.txt"},
		{"/tmp/evil", "evil.txt"},
		{"", "transcript.txt"},
		{".", "transcript.txt"},
		{"..", "transcript.txt"},
		{"a.b", "a.b.txt"},
	}
	for _, tc := range cases {
		if got := NormalizeTxtName(tc.in); got != tc.want {
			t.Errorf("NormalizeTxtName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTxtNameSingleSuffix(t *testing.T) {
	got := NormalizeTxtName(NormalizeTxtName("notes"))
	if strings.Count(strings.ToLower(got), ".txt") != 1 {
		t.Fatalf("double normalization produced %q", got)
	}
}

func TestNewInputPathUniqueInsideDir(t *testing.T) {
	s := New(t.TempDir())
	a := s.NewInputPath(".mp3")
	b := s.NewInputPath(".mp3")
	if a == b {
		t.Fatal("two input paths collided")
	}
	if filepath.Dir(a) != s.Dir() {
		t.Fatalf("input path %q escapes scratch dir %q", a, s.Dir())
	}
	if filepath.Ext(a) != ".mp3" {
		t.Fatalf("input path %q lost its extension", a)
	}
}

func TestEnsureWriteRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "scratch")
	s := New(dir)
	if err := s.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	out := filepath.Join(dir, "notes.txt")
	if err := s.WriteFile(out, []byte("hello")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "hello" {
		t.Fatalf("read back: %q, %v", data, err)
	}

	if err := s.Remove(out); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// Second removal of the same path must be a no-op.
	if err := s.Remove(out); err != nil {
		t.Fatalf("Remove (missing): %v", err)
	}
	if err := s.Remove(""); err != nil {
		t.Fatalf("Remove (empty path): %v", err)
	}
}

func TestTranscriptPathUniquePerInput(t *testing.T) {
	s := New(t.TempDir())
	a := s.TranscriptPath(s.NewInputPath(".mp3"))
	b := s.TranscriptPath(s.NewInputPath(".mp3"))
	if a == b {
		t.Fatal("transcript paths for distinct inputs collided")
	}
	if filepath.Ext(a) != ".txt" {
		t.Fatalf("transcript path %q does not end in .txt", a)
	}
	if filepath.Dir(a) != s.Dir() {
		t.Fatalf("transcript path %q escapes scratch dir %q", a, s.Dir())
	}
}

func TestStorageErrorCode(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing"))
	err := s.WriteFile(filepath.Join(s.Dir(), "x.txt"), []byte("x"))
	if err == nil {
		t.Fatal("expected write into missing dir to fail")
	}
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *scratch.Error, got %T", err)
	}
	if serr.Code() != "STORAGE_ERROR" {
		t.Fatalf("Code() = %q", serr.Code())
	}
}
