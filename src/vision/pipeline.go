// Package vision runs the two-stage image pipeline: an image is analyzed by
// the vision model, and the validated analysis is folded into a prompt for
// the chat model. Failures never escape as errors; they become a degraded
// prompt so the turn always has a single success path.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/atomiclibrary/atom/src/aisdk"
	"github.com/atomiclibrary/atom/src/dispatch"
)

// Dispatcher is the failover engine the pipeline drives. *dispatch.Dispatcher
// satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, messages []*aisdk.Message, role dispatch.Role) (string, error)
}

// minAnalysisLength is the shortest trimmed analysis accepted as meaningful.
// Anything shorter is treated as a failed analysis even when the call itself
// succeeded.
const minAnalysisLength = 10

// systemInstruction tells the vision model to solve, not describe.
const systemInstruction = `You are an expert educational AI that specializes in solving problems from images. Your job is to analyze and SOLVE any educational content shown in images.

CRITICAL INSTRUCTIONS:
- If it's a MATH PROBLEM: Solve it step-by-step with detailed working and provide the final answer
- If it's a SCIENCE question: Explain the concept and provide complete solutions
- If it's any academic question: Provide complete answers with explanations
- If it's homework/textbook content: Solve all questions shown and explain the solutions
- For diagrams: Explain what they show and solve any related problems
- Always provide COMPLETE SOLUTIONS, not just descriptions

RESPONSE FORMAT:
- Start with brief identification of what the image contains
- Then provide STEP-BY-STEP SOLUTIONS for any problems shown
- Show all mathematical working clearly
- Give final answers in clear format
- Always respond in Bengali (Bangla) for Bangladeshi students
- Be thorough and educational in your explanations

Remember: You are solving problems, not just describing them. Provide complete solutions!`

// defaultImagePrompt is the text part sent to the vision model when the
// student attached no question.
const defaultImagePrompt = "এই ছবিতে যা দেখানো হয়েছে তা সমাধান করো এবং সম্পূর্ণ ব্যাখ্যা দাও।"

// Pipeline wires image analysis into chat prompts.
type Pipeline struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewPipeline creates a vision pipeline.
func NewPipeline(dispatcher Dispatcher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		dispatcher: dispatcher,
		logger:     logger.With("component", "vision_pipeline"),
	}
}

// AnalyzeAndAnswer dispatches the image to the vision model and returns the
// final user message for the chat model. On a validated analysis the message
// embeds the analysis verbatim; on dispatch exhaustion or a too-short result
// it returns the degraded fallback prompt instead. It never returns an error.
func (p *Pipeline) AnalyzeAndAnswer(ctx context.Context, imageDataURI, utterance string) string {
	analysis, err := p.analyze(ctx, imageDataURI, utterance)
	if err != nil {
		p.logger.Warn("image analysis failed, falling back to text-only prompt", "error", err)
		return fallbackPrompt(utterance)
	}

	p.logger.Debug("image analysis succeeded", "analysis_length", len(analysis))
	return combinedPrompt(analysis, utterance)
}

// analyze runs the vision dispatch and validates the result.
func (p *Pipeline) analyze(ctx context.Context, imageDataURI, utterance string) (string, error) {
	text := utterance
	if strings.TrimSpace(text) == "" {
		text = defaultImagePrompt
	}

	messages := []*aisdk.Message{
		aisdk.NewTextMessage("system", systemInstruction),
		aisdk.NewMultipartMessage("user",
			aisdk.NewTextPart(text),
			aisdk.NewImagePart(imageDataURI),
		),
	}

	analysis, err := p.dispatcher.Dispatch(ctx, messages, dispatch.RoleVision)
	if err != nil {
		return "", err
	}

	if utf8.RuneCountInString(strings.TrimSpace(analysis)) < minAnalysisLength {
		return "", fmt.Errorf("vision analysis returned empty or very short response")
	}

	return analysis, nil
}

// combinedPrompt embeds a successful analysis into the chat prompt.
func combinedPrompt(analysis, utterance string) string {
	if strings.TrimSpace(utterance) != "" {
		return fmt.Sprintf(`আমি একটি ছবি আপলোড করেছি এবং এর সাথে একটি প্রশ্ন করেছি।

VISION ANALYSIS থেকে পাওয়া তথ্য:
%s

ব্যবহারকারীর মূল প্রশ্ন: %s

অনুগ্রহ করে:
1. ছবিতে যা দেখানো হয়েছে তা সম্পূর্ণভাবে বিশ্লেষণ করো
2. ব্যবহারকারীর প্রশ্নের সম্পূর্ণ উত্তর দাও
3. যদি গণিতের প্রশ্ন হয় তাহলে ধাপে ধাপে সমাধান দেখাও
4. NCTB বইয়ের ফরম্যাট অনুসরণ করো
5. সব কিছু বাংলায় ব্যাখ্যা করো

এটি অত্যন্ত গুরুত্বপূর্ণ যে তুমি ছবির বিষয়বস্তু এবং ব্যবহারকারীর প্রশ্ন উভটাই সম্পূর্ণভাবে বুঝে উত্তর দাও।`, analysis, utterance)
	}

	return fmt.Sprintf(`আমি একটি ছবি আপলোড করেছি।

VISION ANALYSIS থেকে পাওয়া তথ্য:
%s

অনুগ্রহ করে:
1. এই ছবিতে যা দেখানো হয়েছে তা সম্পূর্ণভাবে বিশ্লেষণ করো
2. যদি এটি একটি গণিতের প্রশ্ন হয় তাহলে সম্পূর্ণ সমাধান দেখাও
3. যদি এটি অন্য কোনো শিক্ষামূলক বিষয় হয় তাহলে সম্পূর্ণ ব্যাখ্যা দাও
4. NCTB বইয়ের ফরম্যাট অনুসরণ করো
5. সব কিছু বাংলায় ব্যাখ্যা করো

ছবির সম্পূর্ণ বিষয়বস্তু নিয়ে বিস্তারিত আলোচনা করো এবং প্রয়োজনীয় শিক্ষামূলক সহায়তা প্রদান করো।`, analysis)
}

// fallbackPrompt apologizes for the analysis failure and asks the chat model
// to proceed with text-only context.
func fallbackPrompt(utterance string) string {
	if strings.TrimSpace(utterance) != "" {
		return fmt.Sprintf(`ব্যবহারকারীর প্রশ্ন: %s

[একটি ছবি প্রদান করা হয়েছে কিন্তু ছবি বিশ্লেষণে সাময়িক technical সমস্যা হয়েছে।]

অনুগ্রহ করে:
1. প্রশ্নটি বুঝে উত্তর দেওয়ার চেষ্টা করো
2. যদি এটি সাধারণ গণিত বা বিজ্ঞানের প্রশ্ন হয় তাহলে সাহায্য করো
3. ব্যবহারকারী পরে আবার ছবি আপলোড করে চেষ্টা করতে পারে

দুঃখিত, ছবি বিশ্লেষণে সাময়িক সমস্যা হয়েছে। 😔`, utterance)
	}

	return `[একটি ছবি আপলোড করা হয়েছে কিন্তু বিশ্লেষণে সাময়িক technical সমস্যা হয়েছে।]

দুঃখিত, এই মুহূর্তে ছবি বিশ্লেষণে সাময়িক সমস্যা হচ্ছে। 😔

অনুগ্রহ করে:
1. কয়েক সেকেন্ড পর আবার চেষ্টা করো
2. অথবা ছবির বিষয়বস্তু টেক্সট আকারে লিখে প্রশ্ন করো
3. আমি টেক্সট আকারে যেকোনো গণিত বা বিজ্ঞানের প্রশ্নের উত্তর দিতে পারবো`
}
