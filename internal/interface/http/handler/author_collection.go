package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appauthor "github.com/xiebiao/courselibrary/internal/application/author"
	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/internal/interface/http/dto"
	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
	"github.com/xiebiao/courselibrary/pkg/response"
	"github.com/xiebiao/courselibrary/pkg/validation"
)

// AuthorCollectionHandler 作者批量操作处理器
type AuthorCollectionHandler struct {
	getCollection *appauthor.GetAuthorCollectionUseCase
	createAuthors *appauthor.CreateAuthorsUseCase
	now           func() time.Time
}

// NewAuthorCollectionHandler 创建批量操作处理器
func NewAuthorCollectionHandler(getCollection *appauthor.GetAuthorCollectionUseCase, createAuthors *appauthor.CreateAuthorsUseCase) *AuthorCollectionHandler {
	return &AuthorCollectionHandler{
		getCollection: getCollection,
		createAuthors: createAuthors,
		now:           time.Now,
	}
}

// GetAuthorCollection 按ID列表查询作者
// @Summary      批量查询作者
// @Tags         作者集合
// @Produce      json
// @Param        ids path string true "逗号分隔的作者ID，如 (id1,id2)"
// @Success      200 {array}  dto.AuthorDto
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      404 {object} response.Response "部分作者不存在"
// @Router       /api/authorcollections/{ids} [get]
func (h *AuthorCollectionHandler) GetAuthorCollection(c *gin.Context) {
	ids, err := parseIDList(c.Param("ids"))
	if err != nil {
		response.Error(c, apperrors.ErrInvalidParams.WithCause(err))
		return
	}

	authors, err := h.getCollection.Execute(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToAuthorDtos(authors, h.now()))
}

// CreateAuthorCollection 一次创建多个作者
// @Summary      批量创建作者
// @Tags         作者集合
// @Accept       json
// @Produce      json
// @Param        request body []dto.AuthorForCreation true "作者列表"
// @Success      201 {array}  dto.AuthorDto
// @Header       201 {string} Location "新作者集合的地址"
// @Failure      400 {object} response.Response "请求体格式错误"
// @Failure      422 {object} response.ProblemDetails "校验失败"
// @Router       /api/authorcollections [post]
func (h *AuthorCollectionHandler) CreateAuthorCollection(c *gin.Context) {
	errs := validation.NewErrors()
	var req []dto.AuthorForCreation
	if !bindJSON(c, &req, errs) {
		return
	}
	if req == nil {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	for i := range req {
		sub := validation.NewErrors()
		dto.AuthorValidator.Validate(&req[i], sub)
		errs.Merge(fmt.Sprintf("[%d]", i), sub)
	}
	if !errs.Valid() {
		validationProblem(c, errs)
		return
	}

	authors := make([]*library.Author, 0, len(req))
	for i := range req {
		authors = append(authors, dto.AuthorFromCreation(&req[i]))
	}
	created, err := h.createAuthors.Execute(c.Request.Context(), authors...)
	if err != nil {
		response.Error(c, err)
		return
	}

	ids := make([]uuid.UUID, len(created))
	for i, a := range created {
		ids[i] = a.ID
	}
	response.Created(c, absoluteURL(c, "/api/authorcollections/"+formatIDList(ids)), dto.ToAuthorDtos(created, h.now()))
}
