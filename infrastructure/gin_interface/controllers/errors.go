package controllers

import (
	"errors"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"github.com/Abdo12KM/children-storybook-generator/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
	"net/http"
)

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTextGeneration):
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Failed to generate story",
			Details: err.Error(),
		})
	case errors.Is(err, domain.ErrStoryNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "Story not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "You can only access your own stories"})
	case errors.Is(err, domain.ErrStoryConflict):
		c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{Error: "Story was updated by another request, try again"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
