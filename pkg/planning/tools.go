package planning

import (
	"context"
	"fmt"

	"github.com/planweave/planweave/pkg/tool"
)

// RegisterPlanningTools installs the four planning tools into the registry.
// Options apply to every tool, so the caller's validation policy holds across
// the set.
func RegisterPlanningTools(reg *tool.Registry, opts ...tool.Option) error {
	if reg == nil {
		return fmt.Errorf("registry is required")
	}

	tools := []*tool.Tool{
		requirementsAnalysisTool(opts...),
		shortPlanningTool(opts...),
		researchTool(opts...),
		architectureDesignTool(opts...),
	}
	for _, t := range tools {
		if err := reg.RegisterTool(t); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", t.Descriptor().Name, err)
		}
	}
	return nil
}

func requirementsAnalysisTool(opts ...tool.Option) *tool.Tool {
	return tool.MustNew(tool.Descriptor{
		Name:        ToolRequirementsAnalysis,
		Description: "Analyze a raw project idea and produce a structured requirements document: project overview, core features, and non-functional requirements.",
		Category:    CategoryPlanning,
		Capability:  tool.Capability{Sync: true},
		Parameters: []tool.Parameter{
			{
				Name:        "user_input",
				Type:        tool.TypeString,
				Description: "The user's original requirement description in natural language",
				Required:    true,
			},
		},
	}, func(ctx context.Context, args map[string]interface{}, ec *tool.ExecutionContext) (interface{}, error) {
		userInput, _ := args["user_input"].(string)
		if userInput == "" {
			return nil, tool.Permanent(fmt.Errorf("user_input is empty"))
		}

		doc := analyzeRequirements(userInput)
		ec.Set(KeyStructuredRequirements, doc)
		return doc, nil
	}, opts...)
}

func shortPlanningTool(opts ...tool.Option) *tool.Tool {
	return tool.MustNew(tool.Descriptor{
		Name:        ToolShortPlanning,
		Description: "Generate a scope-alignment brief from structured requirements: core scope items, phases, and milestones for the user to confirm.",
		Category:    CategoryPlanning,
		Capability:  tool.Capability{Sync: true},
		Parameters: []tool.Parameter{
			{
				Name:        "structured_requirements",
				Type:        tool.TypeObject,
				Description: "Structured requirements, usually the output of requirements_analysis",
				Required:    true,
			},
		},
	}, func(ctx context.Context, args map[string]interface{}, ec *tool.ExecutionContext) (interface{}, error) {
		reqs, err := requirementsFrom(args["structured_requirements"])
		if err != nil {
			return nil, tool.Permanent(err)
		}

		doc := buildShortPlan(reqs)
		ec.Set(KeyConfirmationDocument, doc)
		return doc, nil
	}, opts...)
}

func researchTool(opts ...tool.Option) *tool.Tool {
	return tool.MustNew(tool.Descriptor{
		Name:        ToolResearch,
		Description: "Research technical approaches for the stated requirements: keywords, candidate solutions, and trade-off notes.",
		Category:    CategoryPlanning,
		Capability:  tool.Capability{Sync: true},
		Parameters: []tool.Parameter{
			{
				Name:        "research_requirements",
				Type:        tool.TypeString,
				Description: "The technical questions and requirements to research",
				Required:    true,
			},
		},
	}, func(ctx context.Context, args map[string]interface{}, ec *tool.ExecutionContext) (interface{}, error) {
		requirements, _ := args["research_requirements"].(string)
		if requirements == "" {
			return nil, tool.Permanent(fmt.Errorf("research_requirements is empty"))
		}

		keywords := extractKeywords(requirements)
		findings := make([]Finding, 0, len(keywords))
		for _, kw := range keywords {
			// Research iterates keyword by keyword; honor cancellation
			// between steps.
			if ec.Cancelled() {
				return nil, ctx.Err()
			}
			findings = append(findings, Finding{
				Keyword: kw,
				Summary: fmt.Sprintf("Evaluate established options for %s; prefer proven, well-documented solutions over novel ones.", kw),
			})
		}

		doc := ResearchFindings{
			Findings:          findings,
			KeywordsProcessed: len(keywords),
		}
		ec.Set(KeyResearchFindings, doc)
		return doc, nil
	}, opts...)
}

func architectureDesignTool(opts ...tool.Option) *tool.Tool {
	return tool.MustNew(tool.Descriptor{
		Name:        ToolArchitectureDesign,
		Description: "Produce a system design document from confirmed requirements, optionally informed by the scope brief and research findings.",
		Category:    CategoryPlanning,
		Capability:  tool.Capability{Sync: true},
		Parameters: []tool.Parameter{
			{
				Name:        "structured_requirements",
				Type:        tool.TypeObject,
				Description: "Structured requirements, usually the output of requirements_analysis",
				Required:    true,
			},
			{
				Name:        "confirmation_document",
				Type:        tool.TypeObject,
				Description: "Confirmed scope brief from short_planning",
				Required:    false,
			},
			{
				Name:        "research_findings",
				Type:        tool.TypeObject,
				Description: "Findings from the research tool",
				Required:    false,
			},
		},
	}, func(ctx context.Context, args map[string]interface{}, ec *tool.ExecutionContext) (interface{}, error) {
		reqs, err := requirementsFrom(args["structured_requirements"])
		if err != nil {
			return nil, tool.Permanent(err)
		}

		// Optional inputs fall back to what earlier tools left in the
		// shared store during this session.
		research := args["research_findings"]
		if research == nil {
			research, _ = ec.Get(KeyResearchFindings)
		}

		doc := buildDesign(reqs, research)
		ec.Set(KeyDesignDocument, doc)
		return doc, nil
	}, opts...)
}
