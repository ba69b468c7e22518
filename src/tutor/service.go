package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atomiclibrary/atom/src/aisdk"
	"github.com/atomiclibrary/atom/src/classify"
	"github.com/atomiclibrary/atom/src/dispatch"
	"github.com/atomiclibrary/atom/src/prompt"
	"github.com/google/uuid"
)

// CompletionDispatcher is the failover engine the service sends prompts to.
type CompletionDispatcher interface {
	Dispatch(ctx context.Context, messages []*aisdk.Message, role dispatch.Role) (string, error)
}

// ImageAnalyzer turns an attached image into an augmented user message.
type ImageAnalyzer interface {
	AnalyzeAndAnswer(ctx context.Context, imageDataURI, utterance string) string
}

// SessionStore persists sessions. Implemented by storage.Store.
type SessionStore interface {
	SaveSession(ctx context.Context, session *Session) error
	ListSessions(ctx context.Context) ([]*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// userImagePlaceholder stands in as the turn content when the student sends
// only an image.
const userImagePlaceholder = "ছবি আপলোড করেছি"

// apology is appended as the assistant turn when the chat dispatch is
// exhausted. Memory stays untouched so the next turn can still refer back.
const apology = "অনুগ্রহ করে কয়েক সেকেন্ড পর আবার চেষ্টা করো। আমি শীঘ্রই ঠিক হয়ে যাবো! 💪"

// TurnInput is one user submission.
type TurnInput struct {
	Utterance string
	Image     string // data URI, empty when no image attached
	Class     string
	Subject   string
}

// Service orchestrates a turn: classify, update memory, optionally run the
// vision pipeline, build the prompt, dispatch, and settle the session.
// Callers must serialize turns; at most one Send per session may be in
// flight.
type Service struct {
	dispatcher CompletionDispatcher
	analyzer   ImageAnalyzer
	store      SessionStore
	logger     *slog.Logger
}

// NewService creates a turn orchestration service.
func NewService(dispatcher CompletionDispatcher, analyzer ImageAnalyzer, store SessionStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		dispatcher: dispatcher,
		analyzer:   analyzer,
		store:      store,
		logger:     logger.With("component", "tutor_service"),
	}
}

// Send runs one user turn against the session. It appends the user turn and
// either a full assistant answer or the fixed apology turn; dispatch failures
// never surface as errors. The returned memory replaces the caller's copy.
// The error reports persistence problems only.
func (s *Service) Send(ctx context.Context, session *Session, memory *ConversationMemory, in TurnInput) (*ConversationMemory, error) {
	trimmed := strings.TrimSpace(in.Utterance)
	hasImage := in.Image != ""
	if trimmed == "" && !hasImage {
		return memory, nil
	}

	classification := classify.Classify(in.Utterance)
	memory = nextMemory(memory, classification, in.Utterance)

	userTurn := Turn{
		ID:        uuid.New().String(),
		Content:   in.Utterance,
		Role:      RoleUser,
		CreatedAt: time.Now(),
		Image:     in.Image,
	}
	if trimmed == "" {
		userTurn.Content = userImagePlaceholder
	}
	if memory != nil && memory.TurnID == "" {
		memory.TurnID = userTurn.ID
	}

	// First user message names the session.
	if session.Title == DefaultTitle && trimmed != "" && countRole(session.Turns, RoleUser) == 0 {
		session.Title = Title(trimmed)
	}

	session.Turns = append(session.Turns, userTurn)
	session.UpdatedAt = time.Now()

	finalUtterance := in.Utterance
	if hasImage {
		finalUtterance = s.analyzer.AnalyzeAndAnswer(ctx, in.Image, in.Utterance)
	}

	p := prompt.Build(prompt.Input{
		Class:          in.Class,
		Subject:        in.Subject,
		Utterance:      finalUtterance,
		Memory:         promptMemory(memory),
		Classification: classification,
		HasImage:       hasImage,
	})

	messages := []*aisdk.Message{
		aisdk.NewTextMessage("system", p.SystemInstruction),
		aisdk.NewTextMessage("user", p.UserContent),
	}

	answer, err := s.dispatcher.Dispatch(ctx, messages, dispatch.RoleChat)
	if err != nil {
		s.logger.Error("chat dispatch exhausted, appending apology turn", "error", err)
		session.Turns = append(session.Turns, Turn{
			ID:        uuid.New().String(),
			Content:   apology,
			Role:      RoleAssistant,
			CreatedAt: time.Now(),
		})
		session.UpdatedAt = time.Now()
		return memory, s.save(ctx, session)
	}

	session.Turns = append(session.Turns, Turn{
		ID:        uuid.New().String(),
		Content:   answer,
		Role:      RoleAssistant,
		CreatedAt: time.Now(),
		Revealing: true,
	})
	session.UpdatedAt = time.Now()

	if memory != nil {
		memory.LastAnswer = answer
		memory.ErrorCorrection = false
	}

	return memory, s.save(ctx, session)
}

// nextMemory applies the pre-dispatch memory update rule: a correction keeps
// the remembered exchange and raises the flag, a brand-new topic overwrites
// the memory, and a reference leaves it alone.
func nextMemory(memory *ConversationMemory, c classify.Classification, utterance string) *ConversationMemory {
	switch {
	case c.IsErrorCorrection && memory != nil:
		clone := *memory
		clone.ErrorCorrection = true
		return &clone
	case !c.IsErrorCorrection && !c.IsReference:
		return &ConversationMemory{LastQuestion: utterance}
	default:
		return memory
	}
}

func promptMemory(memory *ConversationMemory) *prompt.Memory {
	if memory == nil {
		return nil
	}
	return &prompt.Memory{
		LastQuestion: memory.LastQuestion,
		LastAnswer:   memory.LastAnswer,
	}
}

func countRole(turns []Turn, role TurnRole) int {
	n := 0
	for _, t := range turns {
		if t.Role == role {
			n++
		}
	}
	return n
}

func (s *Service) save(ctx context.Context, session *Session) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
