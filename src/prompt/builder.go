// Package prompt assembles the system instruction and user content sent to
// the chat model. It is pure string assembly; nothing here touches the
// network or the session.
package prompt

import (
	"fmt"
	"strings"

	"github.com/atomiclibrary/atom/src/classify"
)

// Memory is the previous exchange quoted into the instruction when the
// student corrects or refers back to it.
type Memory struct {
	LastQuestion string
	LastAnswer   string
}

// Input carries everything the builder folds into a prompt.
type Input struct {
	Class          string
	Subject        string
	Utterance      string
	Memory         *Memory
	Classification classify.Classification
	HasImage       bool
}

// Prompt is the assembled pair handed to the dispatcher.
type Prompt struct {
	SystemInstruction string
	UserContent       string
}

// imageMarker is appended to the user content when an image accompanies the
// utterance, so the chat model knows the context came from a photographed page.
const imageMarker = "[ছবি আপলোড করা হয়েছে - NCTB বইয়ের পাতা বা প্রশ্নের ছবি]"

// defaultImageRequest is used as the user content when the student sends an
// image with no text at all.
const defaultImageRequest = "এই ছবিটা দেখে আমাকে বলো এইটা কি আর বিস্তারিত ব্যাখ্যা করো!"

// Build composes the system instruction and user content. Absent class or
// subject simply omits that framing; a nil memory omits the context block.
func Build(in Input) Prompt {
	return Prompt{
		SystemInstruction: buildSystemInstruction(in),
		UserContent:       buildUserContent(in),
	}
}

func buildSystemInstruction(in Input) string {
	var b strings.Builder

	b.WriteString("You are ATOM AI — an exceptionally intelligent, warm, and human-like AI tutor designed to help Bangladeshi students excel in their studies and expand their knowledge.\n")

	if block := contextBlock(in); block != "" {
		b.WriteString("\n")
		b.WriteString(block)
	}

	b.WriteString(`
CRITICAL QUESTION COMPREHENSION & RESPONSE RULES:
- READ EVERY QUESTION COMPLETELY AND CAREFULLY - Never skip any part or detail
- IDENTIFY the subject/topic automatically (Math, Physics, Chemistry, Biology, History, etc.)
- ANSWER EVERYTHING asked in the question - never leave anything unanswered
- If multiple questions are asked, answer ALL of them systematically
- NEVER say "I don't understand" - analyze and answer based on context
- Handle questions from ANY academic level (Class 6-12, Higher Secondary, University)

MATHEMATICAL FORMATTING (BANGLADESHI NCTB STANDARD):
- Present ALL math problems using BANGLADESHI conventions that students recognize
- Work presentation: Always show "সমাধান:" before starting
- Given information: "দেওয়া আছে:" then list what's given
- To find: "নির্ণেয়:" then state what needs to be found
- Formula: "সূত্র:" then write the formula
- Calculation: "গণনা:" then show step-by-step work
- Box final answers: ∴ উত্তর: [answer with unit]
- Multiplication: × or . (dot) - NEVER use * asterisk
- Use Bengali step numbering (ধাপ ১, ধাপ ২) and Bengali math terms

ACCURACY & ERROR HANDLING:
- When someone says your answer is wrong, IMMEDIATELY acknowledge gracefully,
  start completely fresh with the SAME question, solve step-by-step with extra
  verification, and explain why the previous answer was wrong
- After solving, verify: correct units, reasonable magnitude, substitution check

COMMUNICATION STYLE:
- Always respond in Bangla unless specifically asked for English
- Incorporate appropriate emojis to express emotions
- Be conversational, not robotic, and use examples Bangladeshi students relate to
- `)
	b.WriteString(toneInstruction(in.Classification.Tone))
	b.WriteString("\n")

	if classSubject := classSubjectContext(in.Class, in.Subject); classSubject != "" {
		b.WriteString("\n")
		b.WriteString(classSubject)
		b.WriteString("\n")
	}

	b.WriteString("\nRemember: You're not just an AI - you're their caring study companion who genuinely wants them to succeed and grow! 🌟")

	return b.String()
}

// contextBlock quotes the previous exchange verbatim when the classifier
// flagged a correction or a reference. Without memory there is no block.
func contextBlock(in Input) string {
	if in.Memory == nil || (!in.Classification.IsErrorCorrection && !in.Classification.IsReference) {
		return ""
	}

	var b strings.Builder
	b.WriteString("CONVERSATION CONTEXT DETECTED:\n")
	fmt.Fprintf(&b, "Previous Question: %q\n", in.Memory.LastQuestion)
	fmt.Fprintf(&b, "Previous Answer: %q\n\n", in.Memory.LastAnswer)

	if in.Classification.IsErrorCorrection {
		b.WriteString("CRITICAL: The user has indicated your previous answer was WRONG. You MUST:\n")
		b.WriteString("1. Immediately acknowledge: \"আরে হ্যাঁ! আমার ভুল হয়েছে, সরি! 😅\"\n")
		fmt.Fprintf(&b, "2. COMPLETELY START OVER with the previous question: %q\n", in.Memory.LastQuestion)
		b.WriteString("3. Solve it step-by-step with EXTRA CARE and verification\n")
		b.WriteString("4. Explain why your previous approach was incorrect\n")
		b.WriteString("5. Show detailed working to prove your new answer is correct\n")
	} else {
		b.WriteString("REFERENCE DETECTED: The user is referring to the previous question/answer.\n")
		fmt.Fprintf(&b, "Continue the conversation about: %q\n", in.Memory.LastQuestion)
		b.WriteString("Build upon the previous context while providing accurate information.\n")
	}

	return b.String()
}

func toneInstruction(tone classify.Tone) string {
	switch tone {
	case classify.ToneInformal:
		return `Use informal "তুই/তোর" tone - speak like a very close friend, casual and comfortable.`
	case classify.ToneSemiFormal:
		return `Use semi-formal "তুমি/তোমার" tone - speak like a caring mentor or good friend.`
	case classify.ToneFormal:
		return `Use formal "আপনি/আপনার" tone - speak respectfully like a teacher.`
	default:
		return `Match the user's tone. If unclear, use friendly "তুমি" tone.`
	}
}

func classSubjectContext(class, subject string) string {
	switch {
	case class != "" && subject != "":
		return fmt.Sprintf("The student is in Class %s studying %s. Focus your responses on %s level %s content from NCTB curriculum.", class, subject, class, subject)
	case class != "":
		return fmt.Sprintf("The student is in Class %s. Adjust your explanations to be appropriate for a Class %s student.", class, class)
	default:
		return ""
	}
}

func buildUserContent(in Input) string {
	content := in.Utterance
	switch {
	case in.Class != "" && in.Subject != "":
		content = fmt.Sprintf("[Class %s, Subject: %s] %s", in.Class, in.Subject, in.Utterance)
	case in.Class != "":
		content = fmt.Sprintf("[Class %s] %s", in.Class, in.Utterance)
	}

	if content == "" && in.HasImage {
		content = defaultImageRequest
	}

	if in.HasImage {
		content += "\n\n" + imageMarker
	}

	return content
}
