// Package classify detects conversational intent in student utterances:
// whether the student is flagging the previous answer as wrong, referring
// back to the previous exchange, and which register they are speaking in.
package classify

import "strings"

// Tone is the second-person register detected in an utterance.
type Tone string

const (
	ToneInformal    Tone = "informal"
	ToneSemiFormal  Tone = "semi_formal"
	ToneFormal      Tone = "formal"
	ToneUnspecified Tone = "unspecified"
)

// Classification is the result of analyzing one utterance.
type Classification struct {
	IsErrorCorrection bool
	IsReference       bool
	Tone              Tone
}

// Classify analyzes an utterance. It is pure and deterministic: the result
// depends only on the utterance text, never on conversation state.
func Classify(utterance string) Classification {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return Classification{Tone: ToneUnspecified}
	}

	return Classification{
		IsErrorCorrection: errorIndicators.matches(trimmed),
		IsReference: (referentialWords.matches(trimmed) && questionWords.matches(trimmed)) ||
			continuationWords.matches(trimmed) ||
			leadingContinuation.matches(trimmed),
		Tone: detectTone(trimmed),
	}
}

func detectTone(utterance string) Tone {
	for _, rule := range toneRules {
		if rule.pattern.MatchString(utterance) {
			return rule.tone
		}
	}
	return ToneUnspecified
}
