package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/courselibrary/internal/interface/http/dto"
	"github.com/xiebiao/courselibrary/pkg/response"
)

// RootHandler API入口文档
type RootHandler struct{}

// NewRootHandler 创建入口处理器
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// GetRoot 返回API入口链接
// @Summary      API入口
// @Description  返回可以从入口出发访问的资源链接
// @Tags         入口
// @Produce      json
// @Success      200 {array} dto.LinkDto
// @Router       /api [get]
func (h *RootHandler) GetRoot(c *gin.Context) {
	response.OK(c, []dto.LinkDto{
		{Href: absoluteURL(c, "/api"), Rel: "self", Method: http.MethodGet},
		{Href: absoluteURL(c, "/api/authors"), Rel: "authors", Method: http.MethodGet},
		{Href: absoluteURL(c, "/api/authors"), Rel: "create_author", Method: http.MethodPost},
	})
}
