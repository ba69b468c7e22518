package prompt

import (
	"strings"
	"testing"

	"github.com/atomiclibrary/atom/src/classify"
	"github.com/stretchr/testify/assert"
)

func TestErrorCorrectionQuotesPreviousQuestion(t *testing.T) {
	utterance := "এই প্রশ্ন ভুল ছিল"
	classification := classify.Classify(utterance)
	assert.True(t, classification.IsErrorCorrection)

	p := Build(Input{
		Utterance:      utterance,
		Memory:         &Memory{LastQuestion: "২+২ কত?", LastAnswer: "৫"},
		Classification: classification,
	})

	assert.Contains(t, p.SystemInstruction, "২+২ কত?")
	assert.Contains(t, p.SystemInstruction, "৫")
	assert.Contains(t, p.SystemInstruction, "COMPLETELY START OVER")
}

func TestNoMemoryEmitsNoContextBlock(t *testing.T) {
	classification := classify.Classify("Hello")
	assert.False(t, classification.IsErrorCorrection)
	assert.False(t, classification.IsReference)

	p := Build(Input{Utterance: "Hello", Classification: classification})
	assert.NotContains(t, p.SystemInstruction, "CONVERSATION CONTEXT DETECTED")
	assert.Equal(t, "Hello", p.UserContent)
}

func TestReferenceWithoutCorrection(t *testing.T) {
	utterance := "আরেকটু বিস্তারিত বলো"
	classification := classify.Classify(utterance)

	p := Build(Input{
		Utterance:      utterance,
		Memory:         &Memory{LastQuestion: "ত্রিভুজের ক্ষেত্রফল কত?", LastAnswer: "৬ বর্গ সেমি"},
		Classification: classification,
	})

	assert.Contains(t, p.SystemInstruction, "REFERENCE DETECTED")
	assert.Contains(t, p.SystemInstruction, "ত্রিভুজের ক্ষেত্রফল কত?")
	assert.NotContains(t, p.SystemInstruction, "COMPLETELY START OVER")
}

func TestClassSubjectFraming(t *testing.T) {
	p := Build(Input{Class: "8", Subject: "Math", Utterance: "বর্গমূল কী?"})
	assert.Contains(t, p.SystemInstruction, "Class 8 studying Math")
	assert.Equal(t, "[Class 8, Subject: Math] বর্গমূল কী?", p.UserContent)

	classOnly := Build(Input{Class: "8", Utterance: "বর্গমূল কী?"})
	assert.Contains(t, classOnly.SystemInstruction, "Class 8 student")
	assert.Equal(t, "[Class 8] বর্গমূল কী?", classOnly.UserContent)

	plain := Build(Input{Utterance: "বর্গমূল কী?"})
	assert.NotContains(t, plain.SystemInstruction, "The student is in Class")
}

func TestToneDirective(t *testing.T) {
	tests := []struct {
		tone classify.Tone
		want string
	}{
		{classify.ToneInformal, "তুই/তোর"},
		{classify.ToneSemiFormal, "তুমি/তোমার"},
		{classify.ToneFormal, "আপনি/আপনার"},
		{classify.ToneUnspecified, "Match the user's tone"},
	}
	for _, tt := range tests {
		p := Build(Input{Utterance: "x", Classification: classify.Classification{Tone: tt.tone}})
		assert.Contains(t, p.SystemInstruction, tt.want)
	}
}

func TestImageUserContent(t *testing.T) {
	withText := Build(Input{Utterance: "এটা সমাধান করো", HasImage: true})
	assert.True(t, strings.HasPrefix(withText.UserContent, "এটা সমাধান করো"))
	assert.Contains(t, withText.UserContent, imageMarker)

	imageOnly := Build(Input{HasImage: true})
	assert.Contains(t, imageOnly.UserContent, defaultImageRequest)
	assert.Contains(t, imageOnly.UserContent, imageMarker)
}
