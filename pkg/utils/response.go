package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorDetail is the error body of the query API: {"detail": "..."}.
// The frontend displays the detail field verbatim as its error banner text.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

func DetailError(c *gin.Context, code int, detail string) {
	c.JSON(code, ErrorDetail{Detail: detail})
}
