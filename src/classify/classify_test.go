package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCorrectionDetection(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      bool
	}{
		{"bengali wrong", "এই প্রশ্ন ভুল ছিল", true},
		{"bengali golot", "তোমার উত্তর গলত", true},
		{"bengali not correct", "এটা সঠিক না", true},
		{"english wrong", "your answer is WRONG", true},
		{"english mistake", "I think you made a mistake", true},
		{"romanized vul", "tomar answer vul hoyeche", true},
		{"mixed right na", "এটা right না", true},
		{"plain question", "২+২ কত?", false},
		{"greeting", "Hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.utterance).IsErrorCorrection)
		})
	}
}

func TestReferenceDetection(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      bool
	}{
		{"reference plus question word", "এই প্রশ্নের উত্তর আবার দাও", true},
		{"english reference", "explain that answer again", true},
		{"continuation word", "আরেকটু বিস্তারিত বলো", true},
		{"leading why bengali", "কেন এমন হলো?", true},
		{"leading why english", "Why does this work?", true},
		{"leading how", "  how did you get 5?", true},
		{"leading more", "More examples please", true},
		{"new topic", "ত্রিভুজের ক্ষেত্রফল নির্ণয় করো", false},
		{"greeting", "Hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.utterance).IsReference)
		})
	}
}

func TestToneDetection(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      Tone
	}{
		{"informal tui", "তুই কি পারবি?", ToneInformal},
		{"informal tor", "তোর উত্তরটা দে", ToneInformal},
		{"semi formal tumi", "তুমি কি বুঝিয়ে দেবে?", ToneSemiFormal},
		{"formal apni", "আপনি দয়া করে বলুন", ToneFormal},
		{"informal wins over formal", "তুই আর আপনি", ToneInformal},
		{"no marker", "what is gravity", ToneUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.utterance).Tone)
		})
	}
}

func TestEmptyInput(t *testing.T) {
	for _, utterance := range []string{"", "   ", "\n\t"} {
		c := Classify(utterance)
		assert.False(t, c.IsErrorCorrection)
		assert.False(t, c.IsReference)
		assert.Equal(t, ToneUnspecified, c.Tone)
	}
}
