package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// supportedExts is the set of audio container extensions accepted for intake.
var supportedExts = map[string]struct{}{
	".flac": {},
	".m4a":  {},
	".mp3":  {},
	".mp4":  {},
	".mpeg": {},
	".mpga": {},
	".oga":  {},
	".ogg":  {},
	".wav":  {},
	".webm": {},
}

// SupportedExt reports whether ext (with leading dot) is an accepted audio
// extension. Matching is case-insensitive.
func SupportedExt(ext string) bool {
	_, ok := supportedExts[strings.ToLower(ext)]
	return ok
}

// Error wraps a scratch filesystem failure with the operation that caused it.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("scratch %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code identifies this error class in handler summary logs.
func (e *Error) Code() string { return "STORAGE_ERROR" }

// Storage manages the scratch directory holding in-flight audio inputs and
// transcript outputs. Files here never outlive the conversation that made them.
type Storage struct {
	dir string
}

// New returns a Storage rooted at dir. The directory is created lazily by
// Ensure, not here, so construction never touches the filesystem.
func New(dir string) *Storage {
	if strings.TrimSpace(dir) == "" {
		dir = "temp"
	}
	return &Storage{dir: dir}
}

// Dir returns the scratch directory path.
func (s *Storage) Dir() string { return s.dir }

// Ensure creates the scratch directory if it does not exist yet.
func (s *Storage) Ensure() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &Error{Op: "mkdir", Path: s.dir, Err: err}
	}
	return nil
}

// NewInputPath returns a collision-free scratch path for a downloaded upload,
// keeping the original extension so the transcription API can sniff the format.
func (s *Storage) NewInputPath(ext string) string {
	return filepath.Join(s.dir, uuid.NewString()+strings.ToLower(ext))
}

// TranscriptPath derives the on-disk transcript location from its input file
// by swapping the audio extension for .txt. Input paths carry a uuid, so the
// transcript path is unique per session no matter what output name the user
// picked; the user-facing name is applied at send time instead.
func (s *Storage) TranscriptPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".txt"
}

// NormalizeTxtName reduces a user-supplied output name to a safe bare
// filename with exactly one .txt suffix. Path separators and traversal are
// stripped via filepath.Base; empty or degenerate input falls back to
// "transcript".
func NormalizeTxtName(name string) string {
	name = strings.TrimSpace(name)
	name = filepath.Base(name)
	switch name {
	case "", ".", "..", string(filepath.Separator):
		name = "transcript"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".txt") {
		name += ".txt"
	}
	return name
}

// WriteFile stores the transcript at path.
func (s *Storage) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Remove deletes a scratch file. A missing file is not an error, so cleanup
// paths can run unconditionally.
func (s *Storage) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Op: "remove", Path: path, Err: err}
	}
	return nil
}
