package planning

// Shared-store keys tools use to pass structured intermediate results to
// tools invoked later in the same session.
const (
	KeyStructuredRequirements = "structured_requirements"
	KeyConfirmationDocument   = "confirmation_document"
	KeyResearchFindings       = "research_findings"
	KeyDesignDocument         = "agent_design_document"
)

// Tool names.
const (
	ToolRequirementsAnalysis = "requirements_analysis"
	ToolShortPlanning        = "short_planning"
	ToolResearch             = "research"
	ToolArchitectureDesign   = "architecture_design"
)

// CategoryPlanning tags every planning tool in the registry.
const CategoryPlanning = "planning"

// ProjectOverview summarizes what the user wants to build.
type ProjectOverview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Requirements is the structured requirements document.
type Requirements struct {
	ProjectOverview ProjectOverview `json:"project_overview"`
	CoreFeatures    []string        `json:"core_features"`
	NonFunctional   []string        `json:"non_functional_requirements"`
}

// Phase is one stage of the short plan.
type Phase struct {
	Name      string   `json:"name"`
	Milestone string   `json:"milestone"`
	Tasks     []string `json:"tasks"`
}

// ConfirmationDocument is the scope-alignment brief generated by
// short_planning; the anchor the user confirms before deeper work.
type ConfirmationDocument struct {
	Title      string   `json:"title"`
	ScopeItems []string `json:"scope_items"`
	Phases     []Phase  `json:"phases"`
}

// Finding is one researched topic.
type Finding struct {
	Keyword string `json:"keyword"`
	Summary string `json:"summary"`
}

// ResearchFindings is the research tool's output document.
type ResearchFindings struct {
	Findings          []Finding `json:"findings"`
	KeywordsProcessed int       `json:"keywords_processed"`
}

// DesignDocument is the architecture design output.
type DesignDocument struct {
	Title         string   `json:"title"`
	Components    []string `json:"components"`
	DataFlows     []string `json:"data_flows"`
	OpenQuestions []string `json:"open_questions"`
}
