package questions

import (
	"context"
	"time"

	"codeberg.org/handbookqa/server/handbook/companies"
)

type CompanyReader interface {
	GetBySlug(ctx context.Context, slug string) (*companies.Company, error)
}

// implemented by retriever.Engine
type Asker interface {
	Ask(ctx context.Context, company *companies.Company, question string) (string, error)
}

type Deps struct {
	Companies CompanyReader
	Engine    Asker
	// upper bound for one question, zero means defaultTimeout
	Timeout time.Duration
}

// AskRequest is the body of POST /questions/:slug
type AskRequest struct {
	Question string `json:"question" binding:"required,max=2000"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}
