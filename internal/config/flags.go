package config

import (
	"flag"
	"os"
	"time"
)

// parses CLI flags for the company subcommand
func ParseCompanyFlags() CompanyFlags {
	fs := flag.NewFlagSet("company", flag.ExitOnError)
	name := fs.String("name", "", "company name (required)")
	fs.Parse(subcommandArgs()) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return CompanyFlags{Name: *name}
}

// parses CLI flags for the token subcommand
func ParseTokenFlags() TokenFlags {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	companyID := fs.Int64("company-id", 0, "company to issue the token for (required)")
	ttl := fs.Duration("ttl", 30*24*time.Hour, "token lifetime")
	fs.Parse(subcommandArgs()) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return TokenFlags{CompanyID: *companyID, TTL: *ttl}
}

// parses CLI flags for the faq subcommand
func ParseFAQFlags() FAQFlags {
	fs := flag.NewFlagSet("faq", flag.ExitOnError)
	documentID := fs.Int64("document-id", 0, "only generate FAQs for this document")
	fs.Parse(subcommandArgs()) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return FAQFlags{DocumentID: *documentID}
}

// parses CLI flags for the delete-company subcommand
func ParseDeleteCompanyFlags() DeleteCompanyFlags {
	fs := flag.NewFlagSet("delete-company", flag.ExitOnError)
	companyID := fs.Int64("company-id", 0, "company to delete (required)")
	confirm := fs.Bool("yes", false, "confirm deleting every document of the company")
	fs.Parse(subcommandArgs()) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return DeleteCompanyFlags{CompanyID: *companyID, Confirm: *confirm}
}

func subcommandArgs() []string {
	if len(os.Args) < 3 {
		return nil
	}

	return os.Args[2:]
}
