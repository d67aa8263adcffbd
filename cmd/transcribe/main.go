package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"scribebot/scratch"
	"scribebot/transcribe"
)

// Standalone transcription, no bot involved: audio file in, .txt file out.
// The API key comes from OPENAI_API_KEY (a .env file works too).
func main() {
	_ = godotenv.Load()

	var (
		output  = flag.String("o", "", "output path (default: input name with .txt)")
		model   = flag.String("model", "", "speech-to-text model")
		baseURL = flag.String("base-url", "", "speech-to-text API base URL")
		timeout = flag.Duration("timeout", 0, "request timeout")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <audio-file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	if ext := strings.ToLower(filepath.Ext(input)); !scratch.SupportedExt(ext) {
		fmt.Fprintf(os.Stderr, "unsupported audio format %q\n", ext)
		os.Exit(1)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY is not set")
		os.Exit(1)
	}

	client := transcribe.NewClient(transcribe.Config{
		APIKey:  apiKey,
		Model:   *model,
		BaseURL: *baseURL,
		Timeout: *timeout,
	})

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := client.Transcribe(ctx, input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ".txt"
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("%s (%d chars, %s)\n", out, len(text), time.Since(start).Round(time.Millisecond))
}
