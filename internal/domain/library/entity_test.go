package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAuthor_NameAndAge(t *testing.T) {
	now := date(2024, 6, 15)

	t.Run("全名", func(t *testing.T) {
		a := &Author{FirstName: "Berry", LastName: "Griffin Beak Eldritch"}
		assert.Equal(t, "Berry Griffin Beak Eldritch", a.Name())
	})

	t.Run("生日未到不满一岁", func(t *testing.T) {
		a := &Author{DateOfBirth: date(1990, 6, 16)}
		assert.Equal(t, 33, a.Age(now))
	})

	t.Run("生日当天", func(t *testing.T) {
		a := &Author{DateOfBirth: date(1990, 6, 15)}
		assert.Equal(t, 34, a.Age(now))
	})

	t.Run("已故作者计算到去世日期", func(t *testing.T) {
		death := date(1700, 3, 1)
		a := &Author{DateOfBirth: date(1650, 3, 2), DateOfDeath: &death}
		assert.Equal(t, 49, a.Age(now))
	})

	t.Run("出生日期在未来", func(t *testing.T) {
		a := &Author{DateOfBirth: date(2030, 1, 1)}
		assert.Equal(t, 0, a.Age(now))
	})
}

func TestAuthorsFilter(t *testing.T) {
	assert.True(t, AuthorsFilter{}.IsEmpty())
	assert.True(t, AuthorsFilter{MainCategory: "  ", OrderBy: "name"}.IsEmpty())
	assert.False(t, AuthorsFilter{SearchQuery: "go"}.IsEmpty())

	n := AuthorsFilter{MainCategory: " Rum ", SearchQuery: "\tsea\n"}.Normalize()
	assert.Equal(t, "Rum", n.MainCategory)
	assert.Equal(t, "sea", n.SearchQuery)
}

func TestParseOrderBy(t *testing.T) {
	fields := ParseOrderBy("name desc, age ,, mainCategory DESC")
	assert.Equal(t, []SortField{
		{Property: "name", Descending: true},
		{Property: "age"},
		{Property: "mainCategory", Descending: true},
	}, fields)

	assert.Empty(t, ParseOrderBy("  "))
}
