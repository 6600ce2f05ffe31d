package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
)

// The bind helpers write the 400 themselves and report whether the handler
// may continue.

func bindURI(c *gin.Context, v any) bool {
	return respondBind(c, dto.BindURI(c, v))
}

func bindJSON(c *gin.Context, v any) bool {
	return respondBind(c, dto.BindJSON(c, v))
}

func bindPage(c *gin.Context, q any, page *dto.PaginationRequest) (int, bool) {
	if !respondBind(c, dto.BindQuery(c, q)) {
		return 0, false
	}

	offset, err := page.Offset()
	if err != nil {
		dto.RespondWithValidationErrors(c, map[string]string{"cursor": err.Error()})
		return 0, false
	}

	return offset, true
}

func respondBind(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case dto.IsValidationError(err):
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
	default:
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, "malformed request")
	}

	return false
}
