package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Quizdesk/config"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Draft is a model-written suggestion for a short answer. It is advisory and
// never changes correctness or score.
type Draft struct {
	SuggestedPoints float64
	Feedback        string
}

type FeedbackDrafter interface {
	Enabled() bool
	DraftFeedback(ctx context.Context, question *model.Question, answer string) (*Draft, error)
}

type geminiDrafter struct {
	client *genai.GenerativeModel
}

// NewGeminiDrafter returns a drafter that is disabled when no API key is configured.
func NewGeminiDrafter(cfg *config.Config) (FeedbackDrafter, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Feedback drafting is disabled.")
		return &geminiDrafter{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Gemini.Model)
	m.SetTemperature(0.2)
	return &geminiDrafter{client: m}, nil
}

func (d *geminiDrafter) Enabled() bool { return d.client != nil }

func (d *geminiDrafter) DraftFeedback(ctx context.Context, question *model.Question, answer string) (*Draft, error) {
	if d.client == nil {
		return nil, ErrFeedbackDisabled
	}

	resp, err := d.client.GenerateContent(ctx, genai.Text(buildFeedbackPrompt(question, answer)))
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Gemini API error while drafting feedback")
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return parseDraft(sb.String(), question.Points)
}

func buildFeedbackPrompt(question *model.Question, answer string) string {
	var b strings.Builder
	b.WriteString("You are a teacher grading a short-answer quiz question.\n")
	b.WriteString("Compare the student's answer with the question and the reference answer if one is given.\n\n")
	b.WriteString("Question:\n---\n")
	b.WriteString(question.Text)
	b.WriteString("\n---\n")
	if question.ReferenceAnswer != nil && *question.ReferenceAnswer != "" {
		b.WriteString("Reference answer:\n---\n")
		b.WriteString(*question.ReferenceAnswer)
		b.WriteString("\n---\n")
	}
	b.WriteString("Student's answer:\n---\n")
	b.WriteString(answer)
	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "Format your response strictly as:\nScore: [a number from 0 to %d]\nFeedback:\n[two or three sentences addressed to the student]\n", question.Points)
	return b.String()
}

// parseDraft reads the "Score:" and "Feedback:" sections and clamps the score
// to [0, maxPoints].
func parseDraft(raw string, maxPoints int) (*Draft, error) {
	const scorePrefix, feedbackPrefix = "Score:", "Feedback:"

	scoreIdx := strings.Index(raw, scorePrefix)
	if scoreIdx == -1 {
		return nil, fmt.Errorf("response does not contain %q", scorePrefix)
	}
	rest := raw[scoreIdx+len(scorePrefix):]
	line := rest
	if nl := strings.Index(rest, "\n"); nl != -1 {
		line = rest[:nl]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty score line")
	}
	score, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], fmt.Sprintf("/%d", maxPoints)), 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse score %q: %w", fields[0], err)
	}
	if score < 0 {
		score = 0
	}
	if limit := float64(maxPoints); score > limit {
		score = limit
	}

	feedback := ""
	if fbIdx := strings.Index(raw, feedbackPrefix); fbIdx > scoreIdx {
		feedback = strings.TrimSpace(raw[fbIdx+len(feedbackPrefix):])
	} else if nl := strings.Index(rest, "\n"); nl != -1 {
		feedback = strings.TrimSpace(rest[nl+1:])
	}
	if feedback == "" {
		return nil, fmt.Errorf("response does not contain feedback")
	}
	return &Draft{SuggestedPoints: score, Feedback: feedback}, nil
}
