package planning

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// analyzeRequirements derives a structured requirements document from a raw
// idea. Deterministic text analysis; the reasoning loop supplies the
// judgement, this tool supplies the structure.
func analyzeRequirements(userInput string) Requirements {
	sentences := splitSentences(userInput)

	features := make([]string, 0, len(sentences))
	for _, s := range sentences {
		features = append(features, strings.TrimSpace(s))
	}

	return Requirements{
		ProjectOverview: ProjectOverview{
			Title:       deriveTitle(userInput),
			Description: strings.TrimSpace(userInput),
		},
		CoreFeatures: features,
		NonFunctional: []string{
			"responsive under expected load",
			"observable: structured logs and basic metrics",
			"recoverable from transient dependency failures",
		},
	}
}

// buildShortPlan turns requirements into a scope-alignment brief.
func buildShortPlan(reqs Requirements) ConfirmationDocument {
	scope := make([]string, 0, len(reqs.CoreFeatures))
	scope = append(scope, reqs.CoreFeatures...)

	phases := []Phase{
		{
			Name:      "foundation",
			Milestone: "core data model and interfaces in place",
			Tasks:     []string{"define domain types", "set up project skeleton", "wire configuration and logging"},
		},
		{
			Name:      "core features",
			Milestone: "primary user-facing functionality working end to end",
			Tasks:     scopeTasks(scope),
		},
		{
			Name:      "hardening",
			Milestone: "error paths, limits, and tests in place",
			Tasks:     []string{"failure-path coverage", "load and timeout behavior", "documentation"},
		},
	}

	return ConfirmationDocument{
		Title:      reqs.ProjectOverview.Title + " — scope brief",
		ScopeItems: scope,
		Phases:     phases,
	}
}

// buildDesign assembles the design document from requirements plus whatever
// research context is available.
func buildDesign(reqs Requirements, research interface{}) DesignDocument {
	components := []string{
		"API/entry layer handling user interaction",
		"domain core implementing: " + strings.Join(truncateList(reqs.CoreFeatures, 3), "; "),
		"persistence layer for durable state",
	}

	flows := []string{
		"user request → entry layer → domain core → response",
		"domain core → persistence layer → durable state",
	}

	open := []string{}
	if research == nil {
		open = append(open, "technology choices not yet researched; run the research tool before committing to a stack")
	} else if rf, ok := toResearchFindings(research); ok {
		for _, f := range rf.Findings {
			flows = append(flows, fmt.Sprintf("decision input: %s — %s", f.Keyword, f.Summary))
		}
	}

	return DesignDocument{
		Title:         reqs.ProjectOverview.Title + " — system design",
		Components:    components,
		DataFlows:     flows,
		OpenQuestions: open,
	}
}

// requirementsFrom accepts either a typed Requirements value (same-process
// callers) or the generic map shape arriving from an LLM tool call.
func requirementsFrom(v interface{}) (Requirements, error) {
	switch typed := v.(type) {
	case Requirements:
		return typed, nil
	case map[string]interface{}:
		var reqs Requirements
		data, err := json.Marshal(typed)
		if err != nil {
			return Requirements{}, fmt.Errorf("unusable structured_requirements: %w", err)
		}
		if err := json.Unmarshal(data, &reqs); err != nil {
			return Requirements{}, fmt.Errorf("unusable structured_requirements: %w", err)
		}
		if reqs.ProjectOverview.Description == "" && len(reqs.CoreFeatures) == 0 {
			return Requirements{}, fmt.Errorf("structured_requirements carries no overview or features")
		}
		return reqs, nil
	default:
		return Requirements{}, fmt.Errorf("structured_requirements must be an object, got %T", v)
	}
}

func toResearchFindings(v interface{}) (ResearchFindings, bool) {
	switch typed := v.(type) {
	case ResearchFindings:
		return typed, true
	case map[string]interface{}:
		var rf ResearchFindings
		data, err := json.Marshal(typed)
		if err != nil {
			return ResearchFindings{}, false
		}
		if err := json.Unmarshal(data, &rf); err != nil {
			return ResearchFindings{}, false
		}
		return rf, true
	default:
		return ResearchFindings{}, false
	}
}

// splitSentences breaks text on terminal punctuation, dropping empties.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == ';' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, strings.TrimSpace(text))
	}
	return out
}

// deriveTitle takes the first few meaningful words of the input.
func deriveTitle(text string) string {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) > 6 {
		words = words[:6]
	}
	title := strings.Join(words, " ")
	if title == "" {
		return "Untitled project"
	}
	runes := []rune(title)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// extractKeywords pulls distinct significant terms from the research prompt.
func extractKeywords(text string) []string {
	stop := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"for": true, "with": true, "to": true, "of": true, "in": true,
		"on": true, "is": true, "it": true, "that": true, "this": true,
		"should": true, "what": true, "which": true, "how": true, "use": true,
	}

	seen := map[string]bool{}
	keywords := []string{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len(word) < 3 || stop[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	if len(keywords) > 8 {
		keywords = keywords[:8]
	}
	return keywords
}

func scopeTasks(scope []string) []string {
	if len(scope) == 0 {
		return []string{"implement confirmed scope items"}
	}
	tasks := make([]string, 0, len(scope))
	for _, item := range truncateList(scope, 5) {
		tasks = append(tasks, "implement: "+item)
	}
	return tasks
}

func truncateList(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
