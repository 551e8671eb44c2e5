package pipeline

import (
	"context"
	"fmt"
	"strings"

	"talentnav/internal/ai"
	"talentnav/internal/config"
	"talentnav/internal/errors"
	"talentnav/internal/parse"
	"talentnav/internal/types"
)

// Question count bounds for one generation request.
const (
	minQuestions = 1
	maxQuestions = 20
)

// QuestionGenerator produces interview questions for a role. It is not a
// pipeline stage; the serve and CLI surfaces call it directly. Without a
// configured generator it rotates through a fixed set of generic questions.
type QuestionGenerator struct {
	generator ai.TextGenerator
	template  string
	logger    *errors.Logger
}

// NewQuestionGenerator builds the question generator.
func NewQuestionGenerator(generator ai.TextGenerator, cfg *config.Config, logger *errors.Logger) *QuestionGenerator {
	return &QuestionGenerator{
		generator: generator,
		template:  resolveTemplate(cfg, config.OperationQuestions, defaultQuestionsTemplate),
		logger:    logger,
	}
}

var baseQuestions = []string{
	"Tell me about your experience related to %s.",
	"Describe a challenging problem you solved recently.",
	"How do you prioritize tasks when working under pressure?",
	"Explain a project where you worked with a team - what was your role?",
	"How do you approach debugging and root-cause analysis?",
}

// Generate returns count interview questions for the given role context.
// It never fails: generation problems degrade to the deterministic set.
func (g *QuestionGenerator) Generate(ctx context.Context, jobTitle, description string, count int) *types.GeneratedQuestions {
	if count < minQuestions {
		count = minQuestions
	}
	if count > maxQuestions {
		count = maxQuestions
	}

	roleContext := strings.TrimSpace(jobTitle)
	if roleContext == "" {
		roleContext = strings.TrimSpace(description)
	}
	if roleContext == "" {
		roleContext = "Candidate"
	}

	if g.generator != nil && g.generator.Available() {
		prompt := fmt.Sprintf(g.template, promptContext(jobTitle, description), count)
		if raw, _, err := g.generator.Generate(ctx, prompt); err == nil {
			mapping := parse.Extract(raw, g.logger)
			questions := mapping.StringList("questions")
			if len(questions) > 0 {
				if len(questions) > count {
					questions = questions[:count]
				}
				return &types.GeneratedQuestions{Questions: questions}
			}
			if g.logger != nil {
				g.logger.Warn("Question generation returned no usable questions, using defaults")
			}
		} else if g.logger != nil {
			g.logger.LogError(err, "Question generation failed, using defaults")
		}
	}

	return g.deterministicQuestions(roleContext, count)
}

// promptContext combines title and description for the prompt body.
func promptContext(jobTitle, description string) string {
	title := strings.TrimSpace(jobTitle)
	desc := collapseWhitespace(description)
	switch {
	case title != "" && desc != "":
		return title + "\n" + desc
	case title != "":
		return title
	case desc != "":
		return desc
	default:
		return "General candidate screening"
	}
}

// deterministicQuestions cycles the base question set until count is
// reached, in a fixed order.
func (g *QuestionGenerator) deterministicQuestions(roleContext string, count int) *types.GeneratedQuestions {
	questions := make([]string, 0, count)
	for i := 0; i < count; i++ {
		q := baseQuestions[i%len(baseQuestions)]
		if strings.Contains(q, "%s") {
			q = fmt.Sprintf(q, roleContext)
		}
		questions = append(questions, q)
	}
	return &types.GeneratedQuestions{Questions: questions}
}
