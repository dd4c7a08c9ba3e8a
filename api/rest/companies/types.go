package companies

import (
	"context"

	"codeberg.org/handbookqa/server/handbook/companies"
)

type CompanyReader interface {
	List(ctx context.Context) ([]companies.Company, error)
	GetBySlug(ctx context.Context, slug string) (*companies.Company, error)
}

type CompaniesListResponse struct {
	Companies []companies.Company `json:"companies"`
}

type CompanyResponse struct {
	Company companies.Company `json:"company"`
}
