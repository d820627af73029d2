package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "terminal punctuation",
			in:   "First feature. Second feature! Third feature?",
			want: []string{"First feature", "Second feature", "Third feature"},
		},
		{
			name: "newlines and semicolons",
			in:   "upload recipes;\nrate recipes",
			want: []string{"upload recipes", "rate recipes"},
		},
		{
			name: "no punctuation falls back to whole text",
			in:   "just one idea",
			want: []string{"just one idea"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitSentences(tt.in))
		})
	}
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "Build a recipe sharing site for", deriveTitle("build a recipe sharing site for food lovers"))
	assert.Equal(t, "Short", deriveTitle("short"))
	assert.Equal(t, "Untitled project", deriveTitle("   "))
}

func TestExtractKeywords(t *testing.T) {
	kws := extractKeywords("Which database should the recipe search use, and how to cache results?")

	assert.Contains(t, kws, "database")
	assert.Contains(t, kws, "cache")
	assert.NotContains(t, kws, "the")
	assert.NotContains(t, kws, "should")

	// Long prompts are capped.
	long := extractKeywords("alpha beta gamma delta epsilon zeta eta theta iota kappa lambda")
	assert.Len(t, long, 8)
}

func TestExtractKeywords_Deduplicates(t *testing.T) {
	kws := extractKeywords("database database DATABASE")
	assert.Equal(t, []string{"database"}, kws)
}

func TestRequirementsFrom(t *testing.T) {
	typed := Requirements{
		ProjectOverview: ProjectOverview{Title: "X", Description: "desc"},
		CoreFeatures:    []string{"f1"},
	}

	got, err := requirementsFrom(typed)
	require.NoError(t, err)
	assert.Equal(t, typed, got)

	got, err = requirementsFrom(map[string]interface{}{
		"project_overview": map[string]interface{}{"title": "X", "description": "desc"},
		"core_features":    []interface{}{"f1", "f2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "X", got.ProjectOverview.Title)
	assert.Equal(t, []string{"f1", "f2"}, got.CoreFeatures)

	_, err = requirementsFrom("not an object")
	assert.Error(t, err)

	_, err = requirementsFrom(map[string]interface{}{})
	assert.Error(t, err)
}

func TestBuildShortPlan(t *testing.T) {
	doc := buildShortPlan(Requirements{
		ProjectOverview: ProjectOverview{Title: "Recipe site"},
		CoreFeatures:    []string{"upload", "rate", "search"},
	})

	assert.Equal(t, "Recipe site — scope brief", doc.Title)
	assert.Equal(t, []string{"upload", "rate", "search"}, doc.ScopeItems)
	require.Len(t, doc.Phases, 3)
	assert.Contains(t, doc.Phases[1].Tasks, "implement: upload")
}

func TestBuildDesign_FoldsInResearch(t *testing.T) {
	reqs := Requirements{
		ProjectOverview: ProjectOverview{Title: "Recipe site"},
		CoreFeatures:    []string{"upload"},
	}

	plain := buildDesign(reqs, nil)
	assert.NotEmpty(t, plain.OpenQuestions)

	informed := buildDesign(reqs, ResearchFindings{
		Findings: []Finding{{Keyword: "database", Summary: "compare relational options"}},
	})
	assert.Empty(t, informed.OpenQuestions)
	assert.Greater(t, len(informed.DataFlows), len(plain.DataFlows))
}
