package questions

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"codeberg.org/handbookqa/server/handbook/companies"
	"codeberg.org/handbookqa/server/internal/errors"
	"codeberg.org/handbookqa/server/internal/retriever"
	"github.com/gin-gonic/gin"
)

const defaultTimeout = 60 * time.Second

// AskHandler godoc
// @Summary Ask a question about a company's handbooks
// @Description Answers from the company's indexed documents only
// @Tags questions
// @Accept json
// @Produce json
// @Param slug path string true "Company slug"
// @Param request body AskRequest true "Question"
// @Success 200 {object} AskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/questions/{slug} [post]
func AskHandler(deps Deps) gin.HandlerFunc {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return func(c *gin.Context) {
		var req AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		question := strings.TrimSpace(req.Question)
		if question == "" {
			errors.BadRequest(c, "question is required", nil)
			return
		}

		company, err := deps.Companies.GetBySlug(c.Request.Context(), c.Param("slug"))
		if stderrors.Is(err, companies.ErrNotFound) {
			errors.NotFound(c, "company")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to get company", err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		answer, err := deps.Engine.Ask(ctx, company, question)
		if err != nil {
			var retrievalErr *retriever.RetrievalError
			if stderrors.As(err, &retrievalErr) {
				errors.UpstreamError(c, "failed to answer question", err)
				return
			}

			errors.InternalError(c, "failed to answer question", err)
			return
		}

		c.JSON(http.StatusOK, AskResponse{Answer: answer})
	}
}
