// Package answer turns retrieved handbook context and an employee question
// into a natural-language answer.
package answer

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/handbookqa/server/internal/llm"
)

const defaultMaxTokens = 1024

type Generator struct {
	llm       llm.TextGenerator
	maxTokens int
}

func New(generator llm.TextGenerator) *Generator {
	return &Generator{
		llm:       generator,
		maxTokens: defaultMaxTokens,
	}
}

// Generate answers with temperature 0 so the same context and question give
// the same answer.
func (g *Generator) Generate(ctx context.Context, contextText, question string) (string, error) {
	return g.GenerateWithTemperature(ctx, contextText, question, 0)
}

func (g *Generator) GenerateWithTemperature(ctx context.Context, contextText, question string, temperature float32) (string, error) {
	resp, err := g.llm.GenerateText(ctx, llm.TextGenerationRequest{
		Messages: []llm.Message{
			{Role: "user", Content: buildPrompt(contextText, question)},
		},
		MaxTokens:   g.maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", &GenerationError{Model: g.llm.Model(), Err: err}
	}

	return resp.Text, nil
}

func buildPrompt(contextText, question string) string {
	var b strings.Builder

	b.WriteString("Answer the question using only the handbook context below. ")
	b.WriteString("If the context does not contain the answer, say that you cannot answer it from the handbook.\n\n")
	fmt.Fprintf(&b, "Context:\n%s\n\n", contextText)
	fmt.Fprintf(&b, "Question: %s", question)

	return b.String()
}
