package search

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"terminal-terrace/guideline-wiki/internal/model/wiki"
	"terminal-terrace/guideline-wiki/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Guidelines(ctx context.Context, pattern string, limit int) ([]wiki.Guideline, error) {
	args := m.Called(pattern, limit)
	return args.Get(0).([]wiki.Guideline), args.Error(1)
}

func (m *mockSource) Categories(ctx context.Context, pattern string, limit int) ([]wiki.Category, error) {
	args := m.Called(pattern, limit)
	return args.Get(0).([]wiki.Category), args.Error(1)
}

func TestSearch_ShortQueryDoesNotTouchStorage(t *testing.T) {
	source := new(mockSource)
	service := NewSearchServiceWithSource(source)

	for _, q := range []string{"", "a", " b ", "心"} {
		results, err := service.Search(context.Background(), q)
		require.Nil(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	source.AssertNotCalled(t, "Guidelines", mock.Anything, mock.Anything)
	source.AssertNotCalled(t, "Categories", mock.Anything, mock.Anything)
}

func TestSearch_EscapesWildcardsAndCaps(t *testing.T) {
	source := new(mockSource)
	source.On("Guidelines", `%50\%\_off%`, MaxGuidelines).Return([]wiki.Guideline{}, nil).Once()
	source.On("Categories", `%50\%\_off%`, MaxCategories).Return([]wiki.Category{}, nil).Once()

	_, err := NewSearchServiceWithSource(source).Search(context.Background(), "50%_OFF")
	require.Nil(t, err)
	source.AssertExpectations(t)
}

func TestSearch_MergesGuidelinesAndCategories(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewSearchService(db)

	cardio := testutils.CreateTestCategory(db, testutils.WithCategoryName("Cardiology"))
	testutils.CreateTestCategory(db, testutils.WithCategoryName("Pediatric Cardiology"))
	testutils.CreateTestCategory(db, testutils.WithCategoryName("Adult Cardiology"))
	testutils.CreateTestCategory(db, testutils.WithCategoryName("Interventional Cardiology"))
	testutils.CreateTestCategory(db, testutils.WithCategoryName("Renal"), testutils.WithCategoryDescription("Kidney and cardiology overlap"))
	testutils.CreateTestCategory(db, testutils.WithCategoryName("Dermatology"))

	for i := 0; i < 7; i++ {
		testutils.CreateTestGuideline(db, cardio.ID, testutils.WithTitle(fmt.Sprintf("Cardiology Protocol %d", i)))
	}
	testutils.CreateTestGuideline(db, cardio.ID, testutils.WithTitle("Unrelated"), testutils.WithContent("nothing here"))

	results, err := service.Search(context.Background(), "CARDIO")
	require.Nil(t, err)
	require.Len(t, results, MaxGuidelines+MaxCategories)

	for _, r := range results[:MaxGuidelines] {
		assert.Equal(t, TypeGuideline, r.Type)
		assert.True(t, strings.HasPrefix(r.Path, "/guidelines/"))
	}
	cats := results[MaxGuidelines:]
	for _, r := range cats {
		assert.Equal(t, TypeCategory, r.Type)
		assert.Equal(t, "/categories/"+r.Slug, r.Path)
	}
	// 分类按名称排序
	assert.Equal(t, "Adult Cardiology", cats[0].Title)
	assert.Equal(t, "Cardiology", cats[1].Title)
	assert.Equal(t, "Interventional Cardiology", cats[2].Title)
}

func TestSearch_GuidelinesByRecentUpdate(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewSearchService(db)
	c := testutils.CreateTestCategory(db, testutils.WithCategoryName("Misc"))
	older := testutils.CreateTestGuideline(db, c.ID, testutils.WithTitle("Older"), testutils.WithContent("insulin dosing"))
	newer := testutils.CreateTestGuideline(db, c.ID, testutils.WithTitle("Newer"), testutils.WithContent("Insulin pumps"))
	require.NoError(t, db.Model(&wiki.Guideline{}).Where("id = ?", older.ID).Update("updated_at", older.UpdatedAt.Add(-time.Hour)).Error)

	results, err := service.Search(context.Background(), "insulin")
	require.Nil(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, newer.ID, results[0].ID)
	assert.Equal(t, older.ID, results[1].ID)
}

func TestSearch_UnicodeCaseFolding(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewSearchService(db)

	neuro := testutils.CreateTestCategory(db, testutils.WithCategoryName("Épilepsie"))
	testutils.CreateTestGuideline(db, neuro.ID, testutils.WithTitle("État de mal épileptique"))
	testutils.CreateTestCategory(db, testutils.WithCategoryName("Dermatology"))

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"大写带重音", "ÉPI", []string{"État de mal épileptique", "Épilepsie"}},
		{"小写带重音", "état", []string{"État de mal épileptique"}},
		{"混合大小写", "MAL ÉP", []string{"État de mal épileptique"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := service.Search(context.Background(), tt.query)
			require.Nil(t, err)
			titles := make([]string, 0, len(results))
			for _, r := range results {
				titles = append(titles, r.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", excerpt("short text", "text"))

	long := strings.Repeat("a", 300) + " needle " + strings.Repeat("b", 300)
	out := excerpt(long, "NEEDLE")
	assert.Contains(t, out, "needle")
	assert.True(t, strings.HasPrefix(out, "…"))
	assert.True(t, strings.HasSuffix(out, "…"))
}
