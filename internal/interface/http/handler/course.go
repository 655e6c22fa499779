package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appcourse "github.com/xiebiao/courselibrary/internal/application/course"
	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/internal/interface/http/dto"
	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
	"github.com/xiebiao/courselibrary/pkg/patch"
	"github.com/xiebiao/courselibrary/pkg/response"
	"github.com/xiebiao/courselibrary/pkg/validation"
)

// CourseHandler 课程HTTP处理器
type CourseHandler struct {
	listCourses   *appcourse.ListCoursesUseCase
	getCourse     *appcourse.GetCourseUseCase
	createCourse  *appcourse.CreateCourseUseCase
	replaceCourse *appcourse.ReplaceCourseUseCase
	patchCourse   *appcourse.PatchCourseUseCase
	deleteCourse  *appcourse.DeleteCourseUseCase
}

// NewCourseHandler 创建课程处理器
func NewCourseHandler(
	listCourses *appcourse.ListCoursesUseCase,
	getCourse *appcourse.GetCourseUseCase,
	createCourse *appcourse.CreateCourseUseCase,
	replaceCourse *appcourse.ReplaceCourseUseCase,
	patchCourse *appcourse.PatchCourseUseCase,
	deleteCourse *appcourse.DeleteCourseUseCase,
) *CourseHandler {
	return &CourseHandler{
		listCourses:   listCourses,
		getCourse:     getCourse,
		createCourse:  createCourse,
		replaceCourse: replaceCourse,
		patchCourse:   patchCourse,
		deleteCourse:  deleteCourse,
	}
}

func courseLocation(c *gin.Context, course *library.Course) string {
	return absoluteURL(c, fmt.Sprintf("/api/authors/%s/courses/%s", course.AuthorID, course.ID))
}

// ListCourses 查询作者的课程
// @Summary      课程列表
// @Description  按标题升序返回作者的全部课程
// @Tags         课程
// @Produce      json
// @Param        authorId path string true "作者ID(GUID)"
// @Success      200 {array}  dto.CourseDto
// @Failure      404 {object} response.Response "作者不存在"
// @Router       /api/authors/{authorId}/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	authorID, ok := routeID(c, "authorId")
	if !ok {
		return
	}

	courses, err := h.listCourses.Execute(c.Request.Context(), authorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToCourseDtos(courses))
}

// GetCourse 查询单个课程
// @Summary      课程详情
// @Tags         课程
// @Produce      json
// @Param        authorId path string true "作者ID(GUID)"
// @Param        courseId path string true "课程ID(GUID)"
// @Success      200 {object} dto.CourseDto
// @Failure      404 {object} response.Response "作者或课程不存在"
// @Router       /api/authors/{authorId}/courses/{courseId} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	authorID, ok := routeID(c, "authorId")
	if !ok {
		return
	}
	courseID, ok := routeID(c, "courseId")
	if !ok {
		return
	}

	course, err := h.getCourse.Execute(c.Request.Context(), authorID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToCourseDto(course))
}

// CreateCourse 为作者创建课程
// @Summary      创建课程
// @Tags         课程
// @Accept       json
// @Produce      json
// @Param        authorId path string true "作者ID(GUID)"
// @Param        request body dto.CourseForCreation true "课程信息"
// @Success      201 {object} dto.CourseDto
// @Header       201 {string} Location "新课程的地址"
// @Failure      400 {object} response.Response "请求体格式错误"
// @Failure      404 {object} response.Response "作者不存在"
// @Failure      422 {object} response.ProblemDetails "校验失败"
// @Router       /api/authors/{authorId}/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	authorID, ok := routeID(c, "authorId")
	if !ok {
		return
	}

	errs := validation.NewErrors()
	var req dto.CourseForCreation
	if !bindJSON(c, &req, errs) {
		return
	}
	dto.CourseValidator.Validate(&req, errs)
	if !errs.Valid() {
		validationProblem(c, errs)
		return
	}

	course, err := h.createCourse.Execute(c.Request.Context(), authorID, dto.CourseFromCreation(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, courseLocation(c, course), dto.ToCourseDto(course))
}

// UpdateCourse 整体替换课程，课程不存在时按URL中的ID创建
// @Summary      替换课程(PUT)
// @Description  课程存在时返回200并回显请求体；不存在时创建并返回201
// @Tags         课程
// @Accept       json
// @Produce      json
// @Param        authorId path string true "作者ID(GUID)"
// @Param        courseId path string true "课程ID(GUID)"
// @Param        request body dto.CourseForUpdate true "课程信息"
// @Success      200 {object} dto.CourseForUpdate
// @Success      201 {object} dto.CourseDto
// @Failure      404 {object} response.Response "作者不存在"
// @Failure      422 {object} response.ProblemDetails "校验失败"
// @Failure      500 {object} response.Response "服务器内部错误"
// @Router       /api/authors/{authorId}/courses/{courseId} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			internalError(c, fmt.Errorf("panic: %v", r))
		}
	}()

	authorID, ok := routeID(c, "authorId")
	if !ok {
		return
	}
	courseID, ok := routeID(c, "courseId")
	if !ok {
		return
	}

	errs := validation.NewErrors()
	var req dto.CourseForUpdate
	if !bindJSON(c, &req, errs) {
		return
	}
	dto.CourseValidator.Validate(&req, errs)
	if !errs.Valid() {
		validationProblem(c, errs)
		return
	}

	result, err := h.replaceCourse.Execute(c.Request.Context(), authorID, courseID, dto.CourseFromUpdate(&req))
	if err != nil {
		if appErr := apperrors.GetAppError(err); apperrors.HTTPStatus(appErr.Code) < http.StatusInternalServerError {
			response.Error(c, err)
			return
		}
		internalError(c, err)
		return
	}

	if result.Created {
		response.Created(c, courseLocation(c, result.Course), dto.ToCourseDto(result.Course))
		return
	}
	response.OK(c, req)
}

// PartiallyUpdateCourse 用JSON Patch局部更新课程，课程不存在时按补丁结果创建
// @Summary      局部更新课程(PATCH)
// @Description  补丁应用到课程的更新模型后执行完整校验
// @Tags         课程
// @Accept       json-patch+json
// @Produce      json
// @Param        authorId path string true "作者ID(GUID)"
// @Param        courseId path string true "课程ID(GUID)"
// @Param        request body patch.Document true "JSON Patch文档"
// @Success      200 {object} dto.CourseDto
// @Success      201 {object} dto.CourseDto
// @Failure      400 {object} response.Response "缺少补丁文档"
// @Failure      404 {object} response.Response "作者不存在"
// @Failure      422 {object} response.ProblemDetails "补丁无效或校验失败"
// @Router       /api/authors/{authorId}/courses/{courseId} [patch]
func (h *CourseHandler) PartiallyUpdateCourse(c *gin.Context) {
	authorID, ok := routeID(c, "authorId")
	if !ok {
		return
	}
	courseID, ok := routeID(c, "courseId")
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, apperrors.ErrBindError.WithCause(err))
		return
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		response.Error(c, apperrors.ErrBindError)
		return
	}

	errs := validation.NewErrors()
	result, err := h.patchCourse.Execute(c.Request.Context(), authorID, courseID, func(current *library.Course) (*library.Course, error) {
		target := dto.CourseForUpdate{}
		if current != nil {
			target = dto.CourseToUpdate(current)
		}

		if !patch.Apply(raw, &target, errs) {
			return nil, errs
		}
		if !dto.CourseValidator.Check(&target, errs) {
			return nil, errs
		}

		if current == nil {
			return dto.CourseFromUpdate(&target), nil
		}
		dto.ApplyCourseUpdate(&target, current)
		return current, nil
	})

	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		validationProblem(c, verrs)
		return
	case err != nil:
		response.Error(c, err)
		return
	}

	if result.Created {
		response.Created(c, courseLocation(c, result.Course), dto.ToCourseDto(result.Course))
		return
	}
	response.OK(c, dto.ToCourseDto(result.Course))
}

// DeleteCourse 删除课程
// @Summary      删除课程
// @Tags         课程
// @Produce      json
// @Param        authorId path string true "作者ID(GUID)"
// @Param        courseId path string true "课程ID(GUID)"
// @Success      200 {object} dto.DeleteCourseResult
// @Failure      404 {object} response.Response "作者或课程不存在"
// @Router       /api/authors/{authorId}/courses/{courseId} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	authorID, ok := routeID(c, "authorId")
	if !ok {
		return
	}
	courseID, ok := routeID(c, "courseId")
	if !ok {
		return
	}

	course, err := h.deleteCourse.Execute(c.Request.Context(), authorID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.DeleteCourseResult{
		Result:   "deleted",
		CourseID: course.ID.String(),
		AuthorID: course.AuthorID.String(),
	})
}
