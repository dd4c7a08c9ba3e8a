package faq

import (
	"fmt"
	"strings"
)

const (
	questionsPerDocument = 5
	questionSeparator    = "|"
)

func buildPrompt(company, contextText string) string {
	return fmt.Sprintf(`You are an employee at %s. Based on the following handbook content, generate %d realistic questions employees might ask (do not answer them):

%s

Separate each question with the "%s" character. Do not include the "%s" character inside any question. Do not add comments, extra whitespaces, or malformed syntax.`,
		company, questionsPerDocument, contextText, questionSeparator, questionSeparator)
}

// parseQuestions splits the model output on the separator, trims each
// question and drops empty ones. At most questionsPerDocument are kept.
func parseQuestions(output string) []string {
	questions := make([]string, 0, questionsPerDocument)

	for _, part := range strings.Split(output, questionSeparator) {
		q := strings.TrimSpace(part)
		if q == "" {
			continue
		}

		questions = append(questions, q)
		if len(questions) == questionsPerDocument {
			break
		}
	}

	return questions
}
