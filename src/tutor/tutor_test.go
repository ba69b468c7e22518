package tutor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	long := strings.Repeat("ab", 20) // 40 characters
	want := long[:30] + "..."
	assert.Equal(t, want, Title(long))

	short := strings.Repeat("a", 20)
	assert.Equal(t, short, Title(short))

	exact := strings.Repeat("a", 30)
	assert.Equal(t, exact, Title(exact))

	assert.Equal(t, DefaultTitle, Title(""))

	// Truncation counts characters, not bytes.
	bengali := strings.Repeat("ক", 40)
	assert.Equal(t, strings.Repeat("ক", 30)+"...", Title(bengali))
}

func TestNewSession(t *testing.T) {
	s := NewSession()
	assert.Equal(t, DefaultTitle, s.Title)
	assert.Len(t, s.Turns, 1)
	assert.Equal(t, RoleAssistant, s.Turns[0].Role)
	assert.NotEmpty(t, s.Turns[0].Content)
	assert.NotEmpty(t, s.ID)
}

func turn(role TurnRole, content string) Turn {
	return Turn{ID: content, Content: content, Role: role, CreatedAt: time.Now()}
}

func TestDeriveMemory(t *testing.T) {
	tests := []struct {
		name  string
		turns []Turn
		want  *ConversationMemory
	}{
		{
			name:  "empty session",
			turns: nil,
			want:  nil,
		},
		{
			name:  "greeting only",
			turns: []Turn{turn(RoleAssistant, "greeting")},
			want:  nil,
		},
		{
			name: "pending question without answer",
			turns: []Turn{
				turn(RoleAssistant, "greeting"),
				turn(RoleUser, "২+২ কত?"),
			},
			want: nil,
		},
		{
			name: "one full exchange",
			turns: []Turn{
				turn(RoleAssistant, "greeting"),
				turn(RoleUser, "২+২ কত?"),
				turn(RoleAssistant, "৪"),
			},
			want: &ConversationMemory{LastQuestion: "২+২ কত?", LastAnswer: "৪", TurnID: "২+২ কত?"},
		},
		{
			name: "takes the last pair",
			turns: []Turn{
				turn(RoleAssistant, "greeting"),
				turn(RoleUser, "প্রথম প্রশ্ন"),
				turn(RoleAssistant, "প্রথম উত্তর"),
				turn(RoleUser, "দ্বিতীয় প্রশ্ন"),
				turn(RoleAssistant, "দ্বিতীয় উত্তর"),
			},
			want: &ConversationMemory{LastQuestion: "দ্বিতীয় প্রশ্ন", LastAnswer: "দ্বিতীয় উত্তর", TurnID: "দ্বিতীয় প্রশ্ন"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveMemory(tt.turns))
		})
	}
}
