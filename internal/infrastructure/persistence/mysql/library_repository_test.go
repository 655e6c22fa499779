package mysql

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
	"github.com/xiebiao/courselibrary/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        ":memory:",
			AutoMigrate: true,
		},
	}
	db, err := NewDB(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func newTestFactory(t *testing.T) (library.RepositoryFactory, *gorm.DB) {
	db := newTestDB(t)
	return NewRepositoryFactory(db, logger.NewNop(), RetryPolicy{MaxRetries: 0}), db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedAuthors 写入测试作者，返回按插入顺序排列的作者
func seedAuthors(t *testing.T, factory library.RepositoryFactory) []*library.Author {
	t.Helper()
	authors := []*library.Author{
		{FirstName: "Berry", LastName: "Griffin Beak Eldritch", DateOfBirth: date(1650, 7, 23), MainCategory: "Ships"},
		{FirstName: "Nancy", LastName: "Swashbuckler Rye", DateOfBirth: date(1668, 5, 21), MainCategory: "Rum"},
		{FirstName: "Eli", LastName: "Ivory Bones Sweet", DateOfBirth: date(1701, 12, 16), MainCategory: "Singing"},
		{FirstName: "Arnold", LastName: "The Unseen Stafford", DateOfBirth: date(1702, 3, 6), MainCategory: "Singing"},
		{FirstName: "Seabury", LastName: "Toxic Reyson", DateOfBirth: date(1690, 11, 23), MainCategory: "Maps"},
		{FirstName: "Rutherford", LastName: "Fearless Cloven", DateOfBirth: date(1723, 4, 5), MainCategory: "General debauchery"},
	}

	repo := factory.New()
	defer repo.Close()
	for _, a := range authors {
		require.NoError(t, repo.AddAuthor(a))
	}
	ok, err := repo.Save(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	return authors
}

func ids(authors []*library.Author) []uuid.UUID {
	out := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		out[i] = a.ID
	}
	return out
}

func TestRepository_Authors(t *testing.T) {
	factory, _ := newTestFactory(t)
	seeded := seedAuthors(t, factory)
	ctx := context.Background()

	t.Run("空过滤条件等同于GetAuthors", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		all, err := repo.GetAuthors(ctx)
		require.NoError(t, err)
		found, err := repo.FindAuthors(ctx, &library.AuthorsFilter{})
		require.NoError(t, err)

		assert.Len(t, all, len(seeded))
		assert.ElementsMatch(t, ids(all), ids(found))
	})

	t.Run("MainCategory去除空白后精确匹配", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		found, err := repo.FindAuthors(ctx, &library.AuthorsFilter{MainCategory: " Singing "})
		require.NoError(t, err)
		require.Len(t, found, 2)
		for _, a := range found {
			assert.Equal(t, "Singing", a.MainCategory)
		}
	})

	// SQLite的LIKE对ASCII不区分大小写
	t.Run("SearchQuery模糊匹配领域与姓名", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		found, err := repo.FindAuthors(ctx, &library.AuthorsFilter{SearchQuery: " Ry "})
		require.NoError(t, err)
		require.NotEmpty(t, found)
		for _, a := range found {
			hit := strings.Contains(strings.ToLower(a.MainCategory), "ry") ||
				strings.Contains(strings.ToLower(a.FirstName), "ry") ||
				strings.Contains(strings.ToLower(a.LastName), "ry")
			assert.True(t, hit, "作者%s不包含搜索词", a.Name())
		}
	})

	t.Run("两个条件同时生效", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		found, err := repo.FindAuthors(ctx, &library.AuthorsFilter{MainCategory: "Singing", SearchQuery: "Eli"})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Eli", found[0].FirstName)
	})

	t.Run("按年龄排序", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		found, err := repo.FindAuthors(ctx, &library.AuthorsFilter{OrderBy: "age desc"})
		require.NoError(t, err)
		require.Len(t, found, len(seeded))
		for i := 1; i < len(found); i++ {
			assert.False(t, found[i].DateOfBirth.Before(found[i-1].DateOfBirth), "age desc应按出生日期升序")
		}
	})

	t.Run("按姓名排序", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		found, err := repo.FindAuthors(ctx, &library.AuthorsFilter{OrderBy: "Name"})
		require.NoError(t, err)
		for i := 1; i < len(found); i++ {
			assert.LessOrEqual(t, found[i-1].FirstName, found[i].FirstName)
		}
	})

	t.Run("未知排序属性", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		_, err := repo.FindAuthors(ctx, &library.AuthorsFilter{OrderBy: "salary"})
		assert.ErrorIs(t, err, library.ErrInvalidOrderBy)
	})

	t.Run("nil过滤条件", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		_, err := repo.FindAuthors(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("按ID批量查询", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		found, err := repo.GetAuthorsByIDs(ctx, []uuid.UUID{seeded[0].ID, seeded[2].ID, uuid.New()})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{seeded[0].ID, seeded[2].ID}, ids(found))

		empty, err := repo.GetAuthorsByIDs(ctx, []uuid.UUID{})
		require.NoError(t, err)
		assert.Empty(t, empty)

		_, err = repo.GetAuthorsByIDs(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("GetAuthor与AuthorExists", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		a, err := repo.GetAuthor(ctx, seeded[1].ID)
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, "Nancy Swashbuckler Rye", a.Name())
		assert.True(t, a.DateOfBirth.Equal(seeded[1].DateOfBirth))

		missing, err := repo.GetAuthor(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)

		exists, err := repo.AuthorExists(ctx, seeded[1].ID)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = repo.AuthorExists(ctx, uuid.Nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestRepository_Courses(t *testing.T) {
	factory, _ := newTestFactory(t)
	author := seedAuthors(t, factory)[0]
	ctx := context.Background()

	t.Run("AddCourse强制使用URL中的作者ID", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		c := &library.Course{AuthorID: uuid.New(), Title: "Commandeering a Ship", Description: "Rum"}
		require.NoError(t, repo.AddCourse(author.ID, c))
		assert.Equal(t, author.ID, c.AuthorID)
		assert.NotEqual(t, uuid.Nil, c.ID)

		ok, err := repo.Save(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := repo.GetCourse(ctx, author.ID, c.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, author.ID, stored.AuthorID)
	})

	t.Run("AddCourse保留调用方指定的ID", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		id := uuid.New()
		c := &library.Course{ID: id, Title: "Upserted"}
		require.NoError(t, repo.AddCourse(author.ID, c))
		assert.Equal(t, id, c.ID)
		ok, err := repo.Save(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("GetCourses按标题升序", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		for _, title := range []string{"Zig", "Ahoy", "Maps 101"} {
			require.NoError(t, repo.AddCourse(author.ID, &library.Course{Title: title}))
		}
		_, err := repo.Save(ctx)
		require.NoError(t, err)

		courses, err := repo.GetCourses(ctx, author.ID)
		require.NoError(t, err)
		require.NotEmpty(t, courses)
		for i := 1; i < len(courses); i++ {
			assert.LessOrEqual(t, courses[i-1].Title, courses[i].Title)
		}
	})

	t.Run("课程必须同时匹配作者ID", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		c := &library.Course{Title: "Scoped"}
		require.NoError(t, repo.AddCourse(author.ID, c))
		_, err := repo.Save(ctx)
		require.NoError(t, err)

		other, err := repo.GetCourse(ctx, uuid.New(), c.ID)
		require.NoError(t, err)
		assert.Nil(t, other)

		_, err = repo.GetCourse(ctx, author.ID, uuid.Nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})

	t.Run("读取结果是快照,不会被隐式保存", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		c := &library.Course{Title: "Original"}
		require.NoError(t, repo.AddCourse(author.ID, c))
		_, err := repo.Save(ctx)
		require.NoError(t, err)

		loaded, err := repo.GetCourse(ctx, author.ID, c.ID)
		require.NoError(t, err)
		loaded.Title = "Changed in memory"

		ok, err := repo.Save(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		reloaded, err := factory.New().GetCourse(ctx, author.ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", reloaded.Title)
	})

	t.Run("更新与删除", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		c := &library.Course{Title: "Before", Description: "desc"}
		require.NoError(t, repo.AddCourse(author.ID, c))
		_, err := repo.Save(ctx)
		require.NoError(t, err)

		c.Apply("After", "")
		require.NoError(t, repo.UpdateCourse(c))
		ok, err := repo.Save(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		stored, err := repo.GetCourse(ctx, author.ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", stored.Title)
		assert.Empty(t, stored.Description)

		// 值未变化的更新同样视为成功
		require.NoError(t, repo.UpdateCourse(c))
		ok, err = repo.Save(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, repo.DeleteCourse(stored))
		ok, err = repo.Save(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		gone, err := repo.GetCourse(ctx, author.ID, c.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("未命中记录时整体回滚", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		added := &library.Course{Title: "Rolled back"}
		require.NoError(t, repo.AddCourse(author.ID, added))
		require.NoError(t, repo.DeleteCourse(&library.Course{ID: uuid.New(), AuthorID: author.ID}))

		ok, err := repo.Save(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		stored, err := repo.GetCourse(ctx, author.ID, added.ID)
		require.NoError(t, err)
		assert.Nil(t, stored, "同一事务中的插入应被回滚")

		// 暂存列表已清空，再次Save不会重复执行
		ok, err = repo.Save(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("存储错误包装为数据库错误", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		dup := uuid.New()
		require.NoError(t, repo.AddCourse(author.ID, &library.Course{ID: dup, Title: "one"}))
		require.NoError(t, repo.AddCourse(author.ID, &library.Course{ID: dup, Title: "two"}))

		ok, err := repo.Save(ctx)
		assert.False(t, ok)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
	})

	t.Run("Close丢弃暂存操作", func(t *testing.T) {
		repo := factory.New()
		c := &library.Course{Title: "Never saved"}
		require.NoError(t, repo.AddCourse(author.ID, c))
		repo.Close()

		ok, err := repo.Save(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := repo.GetCourse(ctx, author.ID, c.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("参数校验", func(t *testing.T) {
		repo := factory.New()
		defer repo.Close()

		assert.ErrorIs(t, repo.AddCourse(uuid.Nil, &library.Course{}), apperrors.ErrInvalidArgument)
		assert.ErrorIs(t, repo.AddCourse(author.ID, nil), apperrors.ErrInvalidArgument)
		assert.ErrorIs(t, repo.UpdateCourse(nil), apperrors.ErrInvalidArgument)
		assert.ErrorIs(t, repo.DeleteCourse(nil), apperrors.ErrInvalidArgument)
		assert.ErrorIs(t, repo.AddAuthor(nil), apperrors.ErrInvalidArgument)
		assert.ErrorIs(t, repo.DeleteAuthor(nil), apperrors.ErrInvalidArgument)
	})
}

func TestRepository_AuthorLifecycle(t *testing.T) {
	factory, _ := newTestFactory(t)
	ctx := context.Background()

	repo := factory.New()
	defer repo.Close()

	author := &library.Author{
		FirstName:    "Jaimy",
		LastName:     "Johnson",
		DateOfBirth:  date(1980, 9, 1),
		MainCategory: "Navigation",
		Courses: []library.Course{
			{Title: "Stars", Description: "Reading the night sky"},
			{Title: "Currents"},
		},
	}
	require.NoError(t, repo.AddAuthor(author))
	require.NotEqual(t, uuid.Nil, author.ID)
	for _, c := range author.Courses {
		assert.NotEqual(t, uuid.Nil, c.ID)
		assert.Equal(t, author.ID, c.AuthorID)
	}

	ok, err := repo.Save(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	courses, err := repo.GetCourses(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Currents", courses[0].Title)

	t.Run("删除作者级联删除课程", func(t *testing.T) {
		require.NoError(t, repo.DeleteAuthor(author))
		ok, err := repo.Save(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		exists, err := repo.AuthorExists(ctx, author.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		courses, err := repo.GetCourses(ctx, author.ID)
		require.NoError(t, err)
		assert.Empty(t, courses)
	})

	t.Run("删除不存在的作者", func(t *testing.T) {
		require.NoError(t, repo.DeleteAuthor(author))
		ok, err := repo.Save(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
