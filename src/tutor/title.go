package tutor

// DefaultTitle names sessions with no user message yet.
const DefaultTitle = "নতুন চ্যাট"

const maxTitleLength = 30

// Title derives a session title from the first user utterance: the first 30
// characters, with an ellipsis when truncated.
func Title(firstMessage string) string {
	if firstMessage == "" {
		return DefaultTitle
	}

	runes := []rune(firstMessage)
	if len(runes) <= maxTitleLength {
		return firstMessage
	}
	return string(runes[:maxTitleLength]) + "..."
}
