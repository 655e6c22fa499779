package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauthor "github.com/xiebiao/courselibrary/internal/application/author"
	appcourse "github.com/xiebiao/courselibrary/internal/application/course"
	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	"github.com/xiebiao/courselibrary/internal/infrastructure/messaging"
	"github.com/xiebiao/courselibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/courselibrary/internal/interface/http/dto"
	"github.com/xiebiao/courselibrary/internal/interface/http/handler"
	"github.com/xiebiao/courselibrary/internal/interface/http/middleware"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/response"
)

const host = "http://example.com"

func newTestConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", AutoMigrate: true},
	}
}

// newRouter 基于内存SQLite组装完整的引擎
func newRouter(t *testing.T, cfg *config.Config, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()
	log := logger.NewNop()

	db, err := mysql.NewDB(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysql.Close(db) })

	repos := mysql.NewRepositoryFactory(db, log, mysql.RetryPolicy{})
	pub := messaging.NewNoopPublisher(log)

	createAuthors := appauthor.NewCreateAuthorsUseCase(repos, pub, log)
	h := Handlers{
		Root: handler.NewRootHandler(),
		Author: handler.NewAuthorHandler(
			appauthor.NewListAuthorsUseCase(repos),
			appauthor.NewGetAuthorUseCase(repos),
			createAuthors,
			appauthor.NewDeleteAuthorUseCase(repos, pub, log),
		),
		AuthorCollection: handler.NewAuthorCollectionHandler(
			appauthor.NewGetAuthorCollectionUseCase(repos),
			createAuthors,
		),
		Course: handler.NewCourseHandler(
			appcourse.NewListCoursesUseCase(repos),
			appcourse.NewGetCourseUseCase(repos),
			appcourse.NewCreateCourseUseCase(repos, pub, log),
			appcourse.NewReplaceCourseUseCase(repos, pub, log),
			appcourse.NewPatchCourseUseCase(repos, pub, log),
			appcourse.NewDeleteCourseUseCase(repos, pub, log),
		),
	}
	return New(cfg, log, h, limiter)
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createAuthor(t *testing.T, r *gin.Engine, first, last, category string) dto.AuthorDto {
	t.Helper()
	body := `{"firstName":"` + first + `","lastName":"` + last + `","dateOfBirth":"1650-07-23T00:00:00Z","mainCategory":"` + category + `"}`
	w := do(r, http.MethodPost, "/api/authors", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.AuthorDto](t, w)
}

func coursesURL(authorID uuid.UUID) string {
	return "/api/authors/" + authorID.String() + "/courses"
}

func TestCourseLifecycle(t *testing.T) {
	r := newRouter(t, newTestConfig(), nil)
	author := createAuthor(t, r, "Berry", "Griffin Beard", "Ships")

	// 创建课程
	w := do(r, http.MethodPost, coursesURL(author.ID), `{"title":"Intro","description":"Basics"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.CourseDto](t, w)
	assert.Equal(t, author.ID, created.AuthorID)
	assert.NotEqual(t, uuid.Nil, created.ID)

	location := w.Header().Get("Location")
	assert.Equal(t, host+coursesURL(author.ID)+"/"+created.ID.String(), location)

	t.Run("Location可以访问", func(t *testing.T) {
		w := do(r, http.MethodGet, strings.TrimPrefix(location, host), "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[dto.CourseDto](t, w)
		assert.Equal(t, "Intro", got.Title)
		assert.Equal(t, "Basics", got.Description)
	})

	t.Run("列表包含新课程", func(t *testing.T) {
		w := do(r, http.MethodGet, coursesURL(author.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]dto.CourseDto](t, w)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})

	t.Run("删除后查询返回404", func(t *testing.T) {
		w := do(r, http.MethodDelete, coursesURL(author.ID)+"/"+created.ID.String(), "")
		require.Equal(t, http.StatusOK, w.Code)
		res := decode[dto.DeleteCourseResult](t, w)
		assert.Equal(t, "deleted", res.Result)
		assert.Equal(t, created.ID.String(), res.CourseID)
		assert.Equal(t, author.ID.String(), res.AuthorID)

		w = do(r, http.MethodGet, coursesURL(author.ID)+"/"+created.ID.String(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateCourse_Validation(t *testing.T) {
	r := newRouter(t, newTestConfig(), nil)
	author := createAuthor(t, r, "Nancy", "Swashbuckler Rye", "Rum")

	t.Run("标题与描述相同返回422", func(t *testing.T) {
		w := do(r, http.MethodPost, coursesURL(author.ID), `{"title":"Same","description":"same"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), response.ProblemContentType)

		problem := decode[response.ProblemDetails](t, w)
		assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
		assert.Equal(t, coursesURL(author.ID), problem.Instance)
		assert.Contains(t, problem.Errors, "CourseForCreation")
		assert.NotEmpty(t, problem.TraceID)
		assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), problem.TraceID)

		list := decode[[]dto.CourseDto](t, do(r, http.MethodGet, coursesURL(author.ID), ""))
		assert.Empty(t, list, "校验失败不应写入")
	})

	t.Run("缺少标题与超长描述同时返回", func(t *testing.T) {
		body := `{"title":"","description":"` + strings.Repeat("x", dto.CourseDescriptionMaxLength+1) + `"}`
		w := do(r, http.MethodPost, coursesURL(author.ID), body)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "title")
		assert.Contains(t, problem.Errors, "description")
	})

	t.Run("请求体不是JSON返回400", func(t *testing.T) {
		w := do(r, http.MethodPost, coursesURL(author.ID), `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("作者不存在返回404", func(t *testing.T) {
		w := do(r, http.MethodPost, coursesURL(uuid.New()), `{"title":"Intro","description":"Basics"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("非GUID的ID返回404", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/authors/not-a-guid/courses", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateCourse(t *testing.T) {
	r := newRouter(t, newTestConfig(), nil)
	author := createAuthor(t, r, "Eli", "Ivory Bones Sweet", "Singing")
	created := decode[dto.CourseDto](t, do(r, http.MethodPost, coursesURL(author.ID), `{"title":"Old","description":"Tune"}`))

	t.Run("已存在时回显请求体", func(t *testing.T) {
		w := do(r, http.MethodPut, coursesURL(author.ID)+"/"+created.ID.String(), `{"title":"New","description":"Shanty"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		echoed := decode[map[string]interface{}](t, w)
		assert.Equal(t, map[string]interface{}{"title": "New", "description": "Shanty"}, echoed)

		got := decode[dto.CourseDto](t, do(r, http.MethodGet, coursesURL(author.ID)+"/"+created.ID.String(), ""))
		assert.Equal(t, "New", got.Title)
	})

	t.Run("不存在时按URL中的ID创建", func(t *testing.T) {
		id := uuid.New()
		w := do(r, http.MethodPut, coursesURL(author.ID)+"/"+id.String(), `{"title":"Fresh","description":"Start"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		got := decode[dto.CourseDto](t, w)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, author.ID, got.AuthorID)
		assert.Equal(t, host+coursesURL(author.ID)+"/"+id.String(), w.Header().Get("Location"))
	})

	t.Run("校验失败返回422", func(t *testing.T) {
		w := do(r, http.MethodPut, coursesURL(author.ID)+"/"+created.ID.String(), `{"title":"x","description":"X"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "CourseForUpdate")
	})

	t.Run("字段错误时不报跨字段错误", func(t *testing.T) {
		w := do(r, http.MethodPut, coursesURL(author.ID)+"/"+created.ID.String(), `{"title":"","description":""}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "title")
		assert.NotContains(t, problem.Errors, "CourseForUpdate")
	})

	t.Run("作者不存在返回404", func(t *testing.T) {
		w := do(r, http.MethodPut, coursesURL(uuid.New())+"/"+uuid.NewString(), `{"title":"a","description":"b"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("课程ID已属于其他作者时返回500", func(t *testing.T) {
		other := createAuthor(t, r, "Rutherford", "Fearless Cloven", "General debauchery")
		target := coursesURL(other.ID) + "/" + created.ID.String()

		w := do(r, http.MethodPut, target, `{"title":"Stolen","description":"Course"}`)
		require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
		body := decode[response.Response](t, w)
		assert.True(t, strings.HasPrefix(body.Message, "服务器内部错误: "), body.Message)

		w = do(r, http.MethodPatch, target, `[{"op":"add","path":"/title","value":"Stolen"},{"op":"add","path":"/description","value":"Course"}]`)
		assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())

		got := decode[dto.CourseDto](t, do(r, http.MethodGet, coursesURL(author.ID)+"/"+created.ID.String(), ""))
		assert.Equal(t, author.ID, got.AuthorID)
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, target, "").Code)
	})
}

func TestPartiallyUpdateCourse(t *testing.T) {
	r := newRouter(t, newTestConfig(), nil)
	author := createAuthor(t, r, "Arnold", "The Unseen Stafford", "Singing")
	created := decode[dto.CourseDto](t, do(r, http.MethodPost, coursesURL(author.ID), `{"title":"Patchable","description":"Original"}`))
	target := coursesURL(author.ID) + "/" + created.ID.String()

	current := func(t *testing.T) dto.CourseDto {
		return decode[dto.CourseDto](t, do(r, http.MethodGet, target, ""))
	}

	t.Run("替换标题", func(t *testing.T) {
		w := do(r, http.MethodPatch, target, `[{"op":"replace","path":"/title","value":"Patched"}]`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[dto.CourseDto](t, w)
		assert.Equal(t, "Patched", got.Title)
		assert.Equal(t, "Original", got.Description)
		assert.Equal(t, "Patched", current(t).Title)
	})

	t.Run("补丁后标题与描述相同返回422且不写入", func(t *testing.T) {
		w := do(r, http.MethodPatch, target, `[{"op":"replace","path":"/description","value":"patched"}]`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "CourseForUpdate")
		assert.Equal(t, "Original", current(t).Description)
	})

	t.Run("移除标题返回422且不写入", func(t *testing.T) {
		w := do(r, http.MethodPatch, target, `[{"op":"remove","path":"/title"}]`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "title")
		assert.Equal(t, "Patched", current(t).Title)
	})

	t.Run("路径不存在返回422", func(t *testing.T) {
		w := do(r, http.MethodPatch, target, `[{"op":"replace","path":"/price","value":"1"}]`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("add到不存在的成员返回422且不写入", func(t *testing.T) {
		before := current(t)
		w := do(r, http.MethodPatch, target, `[{"op":"add","path":"/nosuchfield","value":"x"}]`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "nosuchfield")
		assert.Equal(t, before, current(t))
	})

	t.Run("空补丁文档返回400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, target, "null").Code)
	})

	t.Run("课程不存在时按补丁结果创建", func(t *testing.T) {
		id := uuid.New()
		w := do(r, http.MethodPatch, coursesURL(author.ID)+"/"+id.String(),
			`[{"op":"add","path":"/title","value":"Born by patch"},{"op":"add","path":"/description","value":"Fresh"}]`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		got := decode[dto.CourseDto](t, w)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Born by patch", got.Title)
	})

	t.Run("课程不存在且补丁结果无效时返回422", func(t *testing.T) {
		id := uuid.New()
		w := do(r, http.MethodPatch, coursesURL(author.ID)+"/"+id.String(), `[{"op":"add","path":"/description","value":"only"}]`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, coursesURL(author.ID)+"/"+id.String(), "").Code)
	})
}

func TestAuthors(t *testing.T) {
	r := newRouter(t, newTestConfig(), nil)
	nancy := createAuthor(t, r, "Nancy", "Swashbuckler Rye", "Rum")
	createAuthor(t, r, "Seabury", "Toxic Reyson", "Maps")

	t.Run("创建作者返回Location", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/authors",
			`{"firstName":"Eli","lastName":"Sweet","dateOfBirth":"1701-12-16T00:00:00Z","mainCategory":"Singing","courses":[{"title":"Shanties","description":"Songs"}]}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		a := decode[dto.AuthorDto](t, w)
		assert.Equal(t, "Eli Sweet", a.Name)
		assert.Equal(t, host+"/api/authors/"+a.ID.String(), w.Header().Get("Location"))

		list := decode[[]dto.CourseDto](t, do(r, http.MethodGet, coursesURL(a.ID), ""))
		assert.Len(t, list, 1)
	})

	t.Run("嵌套课程的错误带前缀", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/authors",
			`{"firstName":"A","lastName":"B","dateOfBirth":"1701-12-16T00:00:00Z","mainCategory":"C","courses":[{"title":"ok","description":"fine"},{"title":"","description":""}]}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "courses[1].title")
	})

	t.Run("按主要领域过滤", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/authors?mainCategory=Rum", "")
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]dto.AuthorDto](t, w)
		require.Len(t, list, 1)
		assert.Equal(t, nancy.ID, list[0].ID)
	})

	t.Run("不支持的排序字段返回400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/authors?orderBy=shoeSize", "").Code)
	})

	t.Run("查询参数超长返回422", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/authors?mainCategory="+strings.Repeat("x", 51), "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "mainCategory")
	})

	t.Run("HEAD没有响应体", func(t *testing.T) {
		w := do(r, http.MethodHead, "/api/authors", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("OPTIONS返回Allow头", func(t *testing.T) {
		w := do(r, http.MethodOptions, "/api/authors", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, handler.AuthorsAllow, w.Header().Get("Allow"))
	})

	t.Run("删除作者后课程一并删除", func(t *testing.T) {
		do(r, http.MethodPost, coursesURL(nancy.ID), `{"title":"Rum 101","description":"Basics"}`)
		assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/authors/"+nancy.ID.String(), "").Code)
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/authors/"+nancy.ID.String(), "").Code)
		assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, coursesURL(nancy.ID), "").Code)
	})
}

func TestAuthorCollections(t *testing.T) {
	r := newRouter(t, newTestConfig(), nil)

	w := do(r, http.MethodPost, "/api/authorcollections",
		`[{"firstName":"Berry","lastName":"Griffin","dateOfBirth":"1650-07-23T00:00:00Z","mainCategory":"Ships"},
		  {"firstName":"Rutherford","lastName":"Cloven","dateOfBirth":"1723-04-05T00:00:00Z","mainCategory":"Debauchery"}]`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[[]dto.AuthorDto](t, w)
	require.Len(t, created, 2)

	ids := "(" + created[0].ID.String() + "," + created[1].ID.String() + ")"
	assert.Equal(t, host+"/api/authorcollections/"+ids, w.Header().Get("Location"))

	t.Run("Location可以访问", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/authorcollections/"+ids, "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[[]dto.AuthorDto](t, w)
		require.Len(t, got, 2)
		assert.Equal(t, created[0].ID, got[0].ID)
		assert.Equal(t, created[1].ID, got[1].ID)
	})

	t.Run("部分不存在返回404", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/authorcollections/("+created[0].ID.String()+","+uuid.NewString()+")", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ID格式错误返回400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/authorcollections/(abc)", "").Code)
	})

	t.Run("请求体为null返回400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/authorcollections", "null").Code)
	})

	t.Run("校验错误带下标前缀", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/authorcollections",
			`[{"firstName":"Ok","lastName":"Fine","dateOfBirth":"1650-07-23T00:00:00Z","mainCategory":"Ships"},{"lastName":"NoFirst","dateOfBirth":"1650-07-23T00:00:00Z","mainCategory":"Ships"}]`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		problem := decode[response.ProblemDetails](t, w)
		assert.Contains(t, problem.Errors, "[1].firstName")
	})
}

func TestRootAndHealth(t *testing.T) {
	r := newRouter(t, newTestConfig(), nil)

	t.Run("入口链接", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api", "")
		require.Equal(t, http.StatusOK, w.Code)
		links := decode[[]dto.LinkDto](t, w)
		require.Len(t, links, 3)
		assert.Equal(t, dto.LinkDto{Href: host + "/api", Rel: "self", Method: http.MethodGet}, links[0])
		assert.Equal(t, "create_author", links[2].Rel)
		assert.Equal(t, http.MethodPost, links[2].Method)
	})

	t.Run("健康检查", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code)
	})

	t.Run("指标", func(t *testing.T) {
		w := do(r, http.MethodGet, "/metrics", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}, nil, logger.NewNop())
	r := newRouter(t, newTestConfig(), limiter)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/api", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "").Code, "健康检查不限流")
}
