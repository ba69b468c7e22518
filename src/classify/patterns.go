package classify

import "regexp"

// patternRule pairs a label with its compiled pattern so the tables stay
// declarative and auditable next to the curriculum content they gate.
type patternRule struct {
	label   string
	pattern *regexp.Regexp
}

// patternTable is an ordered set of rules; a table matches when any rule does.
type patternTable []patternRule

func (t patternTable) matches(s string) bool {
	for _, rule := range t {
		if rule.pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// Word boundaries only work for ASCII in RE2, so Bengali alternatives are
// matched as plain substrings while English/romanized ones keep \b guards.
var (
	errorIndicators = patternTable{
		{"bn_wrong", regexp.MustCompile(`ভুল|গলত|সঠিক না`)},
		{"en_wrong", regexp.MustCompile(`(?i)\b(vul|wrong|incorrect|mistake|error)\b`)},
		{"mixed_wrong", regexp.MustCompile(`(?i)right না`)},
	}

	referentialWords = patternTable{
		{"bn_reference", regexp.MustCompile(`এই প্রশ্ন|আগের|উপরের|সেই|ওই|আবার|পুনরায়|একই প্রশ্ন|এইটা|এই সমস্যা`)},
		{"en_reference", regexp.MustCompile(`(?i)\b(this question|previous|that|again|same question|this problem)\b`)},
	}

	questionWords = patternTable{
		{"bn_question", regexp.MustCompile(`প্রশ্ন|উত্তর|সমাধান|সমস্যা|ব্যাখ্যা|বুঝিয়ে`)},
		{"en_question", regexp.MustCompile(`(?i)\b(question|answer|solution|problem|explain|clarify)\b`)},
	}

	continuationWords = patternTable{
		{"bn_continuation", regexp.MustCompile(`আরো|বিস্তারিত|ব্যাখ্যা|কেন|কিভাবে`)},
		{"en_continuation", regexp.MustCompile(`(?i)\b(more|detail|explanation|why|how)\b`)},
	}

	leadingContinuation = patternTable{
		{"bn_leading", regexp.MustCompile(`^(কেন|কিভাবে|আরো)`)},
		{"en_leading", regexp.MustCompile(`(?i)^(why|how|more)\b`)},
	}
)

// toneRule maps a second-person register marker to its tone.
type toneRule struct {
	tone    Tone
	pattern *regexp.Regexp
}

// Ordered from most informal to formal; the first match wins.
var toneRules = []toneRule{
	{ToneInformal, regexp.MustCompile(`তোই|তোর|তোকে|তুই`)},
	{ToneSemiFormal, regexp.MustCompile(`তুমি|তোমার|তোমাকে`)},
	{ToneFormal, regexp.MustCompile(`আপনি|আপনার|আপনাকে`)},
}
