package tutor

// ConversationMemory is the single most recent exchange, kept so the
// classifier and prompt builder can handle corrections and follow-ups.
// One per session, overwritten as turns settle.
type ConversationMemory struct {
	LastQuestion    string
	LastAnswer      string
	TurnID          string
	ErrorCorrection bool
}

// DeriveMemory rebuilds memory from stored turns when a past session is
// reopened. It takes the last user/assistant pair, and only when at least
// one full exchange happened: one user turn and an assistant turn beyond
// the greeting. Otherwise it returns nil.
func DeriveMemory(turns []Turn) *ConversationMemory {
	var lastUser, lastAssistant *Turn
	userCount, assistantCount := 0, 0

	for i := range turns {
		switch turns[i].Role {
		case RoleUser:
			userCount++
			lastUser = &turns[i]
		case RoleAssistant:
			assistantCount++
			lastAssistant = &turns[i]
		}
	}

	if userCount == 0 || assistantCount <= 1 {
		return nil
	}

	return &ConversationMemory{
		LastQuestion: lastUser.Content,
		LastAnswer:   lastAssistant.Content,
		TurnID:       lastUser.ID,
	}
}
