// Package autogen builds prompts for an AI question generator and parses
// the model's replies into question drafts.
//
// The model output is untrusted text. Parsing is strict and structural:
// a line-oriented grammar plus sanitization, never evaluation of any kind.
package autogen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/chrisvdg/trivia-backend/internal/logger"
	"github.com/chrisvdg/trivia-backend/internal/models"
	"github.com/chrisvdg/trivia-backend/internal/services"
)

// DraftAuthor is recorded as the creator of generated questions, which
// therefore always enter the review queue as pending.
const DraftAuthor = "ChatGPT"

const systemPrompt = "You are a trivia question generator."

// Completer produces a completion for a prompt. Implemented outside this
// module by whatever model client is configured.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// QuestionLister supplies example questions for the prompt.
type QuestionLister interface {
	List(ctx context.Context, filters map[string]any) ([]models.Question, error)
}

// DraftSaver persists parsed drafts through the ordinary creation path.
type DraftSaver interface {
	Create(ctx context.Context, in services.CreateQuestionInput) (*models.Question, error)
}

// Draft is one parsed question candidate from the model output.
type Draft struct {
	Question     string
	Answer       string
	Tags         []string
	AnswerSource string
}

var sanitizer = bluemonday.StrictPolicy()

// BuildPrompt formats example questions into the generation prompt.
func BuildPrompt(examples []models.Question, n int) string {
	var b strings.Builder
	b.WriteString(`You are an AI trivia question generator. Below are some examples of trivia questions.
Each question includes a source for the answer. Based on these examples, generate new trivia questions with similar structure and tone, but with completely new content.

Format:
- question: [text]
- answer: [text]
- tags: [list of tags]
- answer source: [weblink]

Examples:
`)

	for _, q := range examples {
		fmt.Fprintf(&b, "\n- question: %s\n- answer: %s\n- tags: [%s]\n- answer source: %s\n",
			q.Question, q.Answer, strings.Join(q.Tags, ", "), q.AnswerSource)
	}

	fmt.Fprintf(&b, "\nNow generate %d new trivia questions in the same format:\n", n)
	return b.String()
}

// ParseDrafts extracts drafts from raw model output. Malformed entries are
// skipped; a draft needs at least a question and an answer.
func ParseDrafts(text string) []Draft {
	var drafts []Draft

	chunks := strings.Split(text, "- question:")
	for _, chunk := range chunks[1:] {
		var d Draft
		lines := strings.Split(chunk, "\n")
		d.Question = cleanField(lines[0])

		for _, line := range lines[1:] {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "- answer source:"):
				d.AnswerSource = cleanField(strings.TrimPrefix(line, "- answer source:"))
			case strings.HasPrefix(line, "- answer:"):
				d.Answer = cleanField(strings.TrimPrefix(line, "- answer:"))
			case strings.HasPrefix(line, "- tags:"):
				d.Tags = parseTagList(strings.TrimPrefix(line, "- tags:"))
			}
		}

		if d.Question == "" || d.Answer == "" {
			logger.Log.Infow("skipping malformed generated entry", "chunk", firstLine(chunk))
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// parseTagList reads a bracketed, comma-separated tag list as plain text.
func parseTagList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.Trim(strings.TrimSpace(part), `"'`)
		if tag = cleanField(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func cleanField(s string) string {
	return strings.TrimSpace(sanitizer.Sanitize(s))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

// Generator samples existing approved questions, asks the model for new
// ones in the same shape, and saves the parsed drafts for review.
type Generator struct {
	questions QuestionLister
	saver     DraftSaver
	completer Completer
}

// NewGenerator creates a Generator.
func NewGenerator(questions QuestionLister, saver DraftSaver, completer Completer) *Generator {
	return &Generator{
		questions: questions,
		saver:     saver,
		completer: completer,
	}
}

// Generate produces up to n new pending questions and reports how many
// were saved.
func (g *Generator) Generate(ctx context.Context, n int) (int, error) {
	approved, err := g.questions.List(ctx, map[string]any{"review_status": models.ReviewApproved})
	if err != nil {
		return 0, err
	}

	// Questions with media do not fit the text-only prompt format.
	examples := approved[:0]
	for _, q := range approved {
		if q.MediaURL == "" {
			examples = append(examples, q)
		}
	}
	rand.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
	if len(examples) > n {
		examples = examples[:n]
	}

	reply, err := g.completer.Complete(ctx, systemPrompt, BuildPrompt(examples, n))
	if err != nil {
		return 0, fmt.Errorf("generate questions: %w", err)
	}

	saved := 0
	for _, d := range ParseDrafts(reply) {
		_, err := g.saver.Create(ctx, services.CreateQuestionInput{
			Question:       d.Question,
			Answer:         d.Answer,
			Tags:           d.Tags,
			AnswerSource:   d.AnswerSource,
			QuestionSource: "AI-generated",
			QuestionTopic:  "General",
			Language:       "english",
			AddedBy:        DraftAuthor,
		})
		if err != nil {
			logger.Log.Errorw("failed to save generated question", "err", err)
			continue
		}
		saved++
	}

	logger.Log.Infow("generated questions saved", "requested", n, "saved", saved)
	return saved, nil
}
