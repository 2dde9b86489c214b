// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/phygital-labs/veritas-backend/internal/apperrors"
	"github.com/phygital-labs/veritas-backend/internal/chain"
	"github.com/phygital-labs/veritas-backend/internal/utils"
)

// respondServiceError translates service-level errors into HTTP responses.
// Chain failures get the classified title/message/action so callers can
// show something actionable instead of a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrProductNotFound),
		errors.Is(err, apperrors.ErrBrandNotFound):
		utils.NotFoundResponse(c, "Resource")

	case errors.Is(err, apperrors.ErrNotMinted),
		errors.Is(err, apperrors.ErrCertificateStale):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_MINTED", err.Error(), nil)

	case errors.Is(err, apperrors.ErrAlreadyActive),
		errors.Is(err, apperrors.ErrIdentityConflict),
		errors.Is(err, apperrors.ErrAlreadyMinted),
		errors.Is(err, apperrors.ErrBrandExists),
		errors.Is(err, apperrors.ErrBrandNotPending),
		errors.Is(err, apperrors.ErrDuplicateCode),
		errors.Is(err, apperrors.ErrSelfTransfer):
		utils.ConflictResponse(c, err.Error())

	case errors.Is(err, apperrors.ErrNotCurrentOwner),
		errors.Is(err, apperrors.ErrBrandNotVerified),
		errors.Is(err, apperrors.ErrNotBrandOwner):
		utils.ForbiddenResponse(c, err.Error())

	case errors.Is(err, apperrors.ErrInvalidAddress),
		errors.Is(err, apperrors.ErrNoWalletAddress),
		errors.Is(err, apperrors.ErrProductNotActive),
		errors.Is(err, apperrors.ErrProductFlagged),
		errors.Is(err, chain.ErrEmptyProductID):
		utils.BadRequestResponse(c, err.Error(), nil)

	default:
		respondChainOrInternal(c, err)
	}
}

func respondChainOrInternal(c *gin.Context, err error) {
	if strings.Contains(err.Error(), "validation failed") {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	var revertErr *chain.RevertError
	if errors.As(err, &revertErr) {
		utils.ErrorResponse(c, http.StatusConflict, "CHAIN_REVERT", revertErr.Error(), chain.Classify(err))
		return
	}

	var submissionErr *chain.SubmissionError
	if errors.As(err, &submissionErr) {
		utils.ErrorResponse(c, http.StatusBadGateway, "CHAIN_SUBMISSION", submissionErr.Error(), chain.Classify(err))
		return
	}

	var eventErr *chain.EventNotFoundError
	if errors.As(err, &eventErr) {
		// The transaction is mined; local state did not follow. This needs
		// an operator, not a retry.
		utils.ErrorResponse(c, http.StatusInternalServerError, "CHAIN_RECONCILIATION", eventErr.Error(), chain.Classify(err))
		return
	}

	if chain.Retryable(err) {
		utils.ServiceUnavailableResponse(c, err.Error(), chain.Classify(err))
		return
	}

	utils.InternalErrorResponse(c, err.Error())
}
