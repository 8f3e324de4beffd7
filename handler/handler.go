package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pustakalab/pustaka-be/types"
)

func sendError(c *gin.Context, err error) {
	c.JSON(types.HTTPStatusCode(err), types.DataResponse{
		Status:  "error",
		Message: err.Error(),
	})
}

func sendErrorMessage(c *gin.Context, status int, message string) {
	c.JSON(status, types.DataResponse{
		Status:  "error",
		Message: message,
	})
}

func sendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, types.DataResponse{
		Status: "success",
		Data:   data,
	})
}
