package catalogserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/apexretail/catalog-server/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError returns an RFC 7807 response for transport-level failures
// (malformed JSON, bad path parameters). Semantic outcomes use the envelope
// bodies instead.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

// messageEnvelope is the body shape shared by all mutation endpoints.
func messageEnvelope(msg string) gin.H {
	return gin.H{"message": msg}
}

// parseIDParam reads a positive integer path parameter, responding with a
// 400 problem when it does not parse.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("invalid "+name+" path parameter"))
		return 0, false
	}
	return id, true
}

// parseCountParam reads a non-negative integer path parameter. Quantities
// may legitimately be zero, unlike identifiers.
func parseCountParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("invalid "+name+" path parameter"))
		return 0, false
	}
	return n, true
}
