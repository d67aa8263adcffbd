package bot

// User-facing replies. Plain text only, no markup.
const (
	msgWelcome = "Hi! Send me an audio file and I will turn it into a text transcript.\n" +
		"Use /help to see what I accept."

	msgHelp = "Send an audio file (flac, m4a, mp3, mp4, mpeg, mpga, oga, ogg, wav or webm), " +
		"either as an audio message or as a document attachment.\n" +
		"I will ask what to call the transcript and reply with a .txt file.\n" +
		"/start resets the conversation at any point."

	msgSendFile = "Send me an audio file to get started, or /help for the list of supported formats."

	msgUnsupportedFormat = "Sorry, I can't work with that file type. " +
		"Supported formats: flac, m4a, mp3, mp4, mpeg, mpga, oga, ogg, wav, webm."

	msgAskFilename = "Got it! What should the transcript file be called?"

	msgNoSession = "I don't have an audio file from you right now. " +
		"Send one first (or /start to begin again)."

	msgFilenameIsCommand = "That looks like a command, not a file name. " +
		"Send a plain name for your transcript, or /start to cancel."

	msgStarting = "Transcribing your audio, this can take a little while..."

	msgDone = "Done! Your transcript is above."

	msgFailed = "Something went wrong while processing your audio. Please try again."
)
