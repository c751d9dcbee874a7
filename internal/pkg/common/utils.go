package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteErrorResponse 寫入錯誤響應並中止後續處理
func WriteErrorResponse(c *gin.Context, err *CustomError) {
	c.AbortWithStatusJSON(err.Status, ErrorResponse{
		Code:    err.Code,
		Message: err.Message,
	})
}
