package result

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/pkg/engine"
)

func TestNormalize_CanonicalTree(t *testing.T) {
	n := NewNormalizer()

	type doc struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
		Count int      `json:"count"`
	}

	out := n.Normalize(doc{Title: "plan", Tags: []string{"a", "b"}, Count: 3})

	tree, ok := out.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "plan", tree["title"])
	assert.Equal(t, []interface{}{"a", "b"}, tree["tags"])
	assert.Equal(t, float64(3), tree["count"])
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer()

	payload := map[string]interface{}{
		"nested": map[string]interface{}{"key": "value"},
		"list":   []interface{}{float64(1), "two"},
	}

	once := n.Normalize(payload)
	twice := n.Normalize(once)

	assert.Equal(t, once, twice)
}

func TestNormalize_Nil(t *testing.T) {
	n := NewNormalizer()
	assert.Nil(t, n.Normalize(nil))
}

func TestNormalize_NonSerializable(t *testing.T) {
	n := NewNormalizer()

	// Channels cannot marshal; the value degrades to its string form.
	out := n.Normalize(make(chan int))
	_, ok := out.(string)
	assert.True(t, ok)
}

func TestFormat_Structured(t *testing.T) {
	n := NewNormalizer()
	r := engine.Result{Status: engine.StatusSuccess, Payload: map[string]interface{}{"k": "v"}}

	out, err := n.Format(r, Structured)
	require.NoError(t, err)
	assert.Equal(t, r.Payload, out)
}

func TestFormat_HumanReadable(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name string
		r    engine.Result
		want []string
	}{
		{
			name: "success",
			r:    engine.Result{Tool: "search", Status: engine.StatusSuccess, Elapsed: 120 * time.Millisecond},
			want: []string{"search", "succeeded"},
		},
		{
			name: "success after retries",
			r:    engine.Result{Tool: "search", Status: engine.StatusSuccess, Retries: 2},
			want: []string{"search", "2 retries"},
		},
		{
			name: "timeout",
			r:    engine.Result{Tool: "slow", Status: engine.StatusTimeout, Retries: 1},
			want: []string{"slow", "timed out"},
		},
		{
			name: "failure",
			r: engine.Result{
				Tool:   "broken",
				Status: engine.StatusFailure,
				Error:  &engine.ErrorDetail{Kind: "permanent", Message: "bad input"},
			},
			want: []string{"broken", "failed", "bad input"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := n.Format(tt.r, HumanReadable)
			require.NoError(t, err)
			s, ok := out.(string)
			require.True(t, ok)
			for _, want := range tt.want {
				assert.Contains(t, s, want)
			}
		})
	}
}

func TestFormat_Condensed_UnderLimit(t *testing.T) {
	n := NewNormalizer()
	r := engine.Result{Payload: map[string]interface{}{"k": "v"}}

	out, err := n.Format(r, Condensed)
	require.NoError(t, err)
	assert.Equal(t, `{"k":"v"}`, out)
}

func TestFormat_Condensed_Truncates(t *testing.T) {
	n := &Normalizer{CondensedLimit: 64}
	r := engine.Result{Payload: strings.Repeat("A", 500)}

	out, err := n.Format(r, Condensed)
	require.NoError(t, err)

	s := out.(string)
	assert.Contains(t, s, "truncated")
	assert.Less(t, len(s), 500)
}

func TestCondense_ReportsTruncation(t *testing.T) {
	n := &Normalizer{CondensedLimit: 64}

	small, truncated := n.Condense(map[string]interface{}{"k": "v"})
	assert.Equal(t, `{"k":"v"}`, small)
	assert.False(t, truncated)

	big, truncated := n.Condense(strings.Repeat("A", 500))
	assert.True(t, truncated)
	assert.Contains(t, big, "truncated")
}

func TestFormat_UnknownStyle(t *testing.T) {
	n := NewNormalizer()

	_, err := n.Format(engine.Result{}, Style("yaml"))
	assert.Error(t, err)
}

func TestAggregate_WorstStatusWins(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		name     string
		statuses []engine.Status
		want     engine.Status
	}{
		{
			name:     "all success",
			statuses: []engine.Status{engine.StatusSuccess, engine.StatusSuccess},
			want:     engine.StatusSuccess,
		},
		{
			name:     "timeout beats success",
			statuses: []engine.Status{engine.StatusSuccess, engine.StatusTimeout},
			want:     engine.StatusTimeout,
		},
		{
			name:     "failure beats timeout",
			statuses: []engine.Status{engine.StatusTimeout, engine.StatusFailure, engine.StatusSuccess},
			want:     engine.StatusFailure,
		},
		{
			name:     "empty batch",
			statuses: nil,
			want:     engine.StatusSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]engine.Result, len(tt.statuses))
			for i, s := range tt.statuses {
				results[i] = engine.Result{Status: s}
			}
			view := n.Aggregate(results)
			assert.Equal(t, tt.want, view.Status)
		})
	}
}

func TestAggregate_CountsAndElapsed(t *testing.T) {
	n := NewNormalizer()

	view := n.Aggregate([]engine.Result{
		{Status: engine.StatusSuccess, Elapsed: 10 * time.Millisecond},
		{Status: engine.StatusFailure, Elapsed: 90 * time.Millisecond},
		{Status: engine.StatusTimeout, Elapsed: 40 * time.Millisecond},
	})

	assert.Equal(t, 1, view.Success)
	assert.Equal(t, 1, view.Failed)
	assert.Equal(t, 1, view.TimedOut)
	assert.Equal(t, 90*time.Millisecond, view.Elapsed)
	assert.Len(t, view.Results, 3)
}
