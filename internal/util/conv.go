package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseUintParam 解析路径参数为uint，非法时直接写400响应
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
