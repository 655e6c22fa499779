package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appauthor "github.com/xiebiao/courselibrary/internal/application/author"
	"github.com/xiebiao/courselibrary/internal/interface/http/dto"
	"github.com/xiebiao/courselibrary/pkg/response"
	"github.com/xiebiao/courselibrary/pkg/validation"
)

// AuthorsAllow OPTIONS /api/authors 返回的Allow头
const AuthorsAllow = "GET,OPTIONS,POST,HEAD"

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	listAuthors   *appauthor.ListAuthorsUseCase
	getAuthor     *appauthor.GetAuthorUseCase
	createAuthors *appauthor.CreateAuthorsUseCase
	deleteAuthor  *appauthor.DeleteAuthorUseCase
	now           func() time.Time
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(
	listAuthors *appauthor.ListAuthorsUseCase,
	getAuthor *appauthor.GetAuthorUseCase,
	createAuthors *appauthor.CreateAuthorsUseCase,
	deleteAuthor *appauthor.DeleteAuthorUseCase,
) *AuthorHandler {
	return &AuthorHandler{
		listAuthors:   listAuthors,
		getAuthor:     getAuthor,
		createAuthors: createAuthors,
		deleteAuthor:  deleteAuthor,
		now:           time.Now,
	}
}

// ListAuthors 作者列表(GET/HEAD)
// @Summary      作者列表
// @Description  按主要领域过滤、按关键词搜索、按属性排序(name/age/mainCategory/id)
// @Tags         作者
// @Produce      json
// @Param        mainCategory query string false "主要领域(精确匹配)"
// @Param        searchQuery  query string false "关键词(匹配主要领域、名、姓)"
// @Param        orderBy      query string false "排序，如 name desc, age"
// @Success      200 {array}  dto.AuthorDto
// @Failure      400 {object} response.Response "不支持的排序字段"
// @Failure      422 {object} response.ProblemDetails "查询参数校验失败"
// @Router       /api/authors [get]
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	errs := validation.NewErrors()
	var query dto.AuthorsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		validation.CollectBinding(err, errs)
		validationProblem(c, errs)
		return
	}

	authors, err := h.listAuthors.Execute(c.Request.Context(), query.ToFilter())
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.Request.Method == http.MethodHead {
		c.Header("Content-Type", "application/json; charset=utf-8")
		c.Status(http.StatusOK)
		return
	}
	response.OK(c, dto.ToAuthorDtos(authors, h.now()))
}

// AuthorsOptions 返回作者集合支持的方法
// @Summary      作者集合支持的方法
// @Tags         作者
// @Success      200 {string} string "Allow头"
// @Router       /api/authors [options]
func (h *AuthorHandler) AuthorsOptions(c *gin.Context) {
	c.Header("Allow", AuthorsAllow)
	c.Status(http.StatusOK)
}

// GetAuthor 查询单个作者
// @Summary      作者详情
// @Tags         作者
// @Produce      json
// @Param        authorId path string true "作者ID(GUID)"
// @Success      200 {object} dto.AuthorDto
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /api/authors/{authorId} [get]
func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	authorID, ok := routeID(c, "authorId")
	if !ok {
		return
	}

	author, err := h.getAuthor.Execute(c.Request.Context(), authorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAuthorDto(author, h.now()))
}

// CreateAuthor 创建作者(可同时创建课程)
// @Summary      创建作者
// @Tags         作者
// @Accept       json
// @Produce      json
// @Param        request body dto.AuthorForCreation true "作者信息"
// @Success      201 {object} dto.AuthorDto
// @Header       201 {string} Location "新作者的地址"
// @Failure      400 {object} response.Response "请求体格式错误"
// @Failure      422 {object} response.ProblemDetails "校验失败"
// @Router       /api/authors [post]
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	errs := validation.NewErrors()
	var req dto.AuthorForCreation
	if !bindJSON(c, &req, errs) {
		return
	}
	dto.AuthorValidator.Validate(&req, errs)
	if !errs.Valid() {
		validationProblem(c, errs)
		return
	}

	created, err := h.createAuthors.Execute(c.Request.Context(), dto.AuthorFromCreation(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	author := created[0]
	response.Created(c, absoluteURL(c, "/api/authors/"+author.ID.String()), dto.ToAuthorDto(author, h.now()))
}

// DeleteAuthor 删除作者及其课程
// @Summary      删除作者
// @Tags         作者
// @Param        authorId path string true "作者ID(GUID)"
// @Success      204
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /api/authors/{authorId} [delete]
func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	authorID, ok := routeID(c, "authorId")
	if !ok {
		return
	}

	if err := h.deleteAuthor.Execute(c.Request.Context(), authorID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
