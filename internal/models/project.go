package models

// ProjectLocation holds the administrative location fields of a canonical
// project record. Every field defaults to the empty string.
type ProjectLocation struct {
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Region       string `json:"region"`
	Province     string `json:"province"`
	District     string `json:"district"`
	Municipality string `json:"municipality"`
}

// CanonicalProject is the unified, provider-agnostic representation of one
// development project. It is the hand-off format between the scraping and
// migration phases; the JSON field names are a stable wire format.
//
// Invariant: every non-required field is an empty string or an empty
// collection, never absent. Consumers check for emptiness, never presence.
type CanonicalProject struct {
	ProjectID             string          `json:"project_id"`
	Title                 string          `json:"title"`
	Description           string          `json:"description"`
	ImplementingAgency    string          `json:"implementing_agency"`
	StartDate             string          `json:"start_date"`
	EndDate               string          `json:"end_date"`
	Location              ProjectLocation `json:"location"`
	FundingSource         string          `json:"funding_source"`
	TotalAllocatedBudget  string          `json:"total_allocated_budget"`
	RealTimeSpending      string          `json:"real_time_spending"`
	LoanAmount            string          `json:"loan_amount"`
	GrantAmount           string          `json:"grant_amount"`
	PhysicalProgress      string          `json:"physical_progress"`
	FinancialProgress     string          `json:"financial_progress"`
	Borrower              string          `json:"borrower"`
	Sector                string          `json:"sector"`
	MajorTheme            string          `json:"major_theme"`
	EnvironmentalCategory string          `json:"environmental_category"`
	ImplementationStatus  string          `json:"implementation_status"`
	URL                   string          `json:"url"`
	ProjectDocumentURL    string          `json:"project_document_url"`

	Milestones            []any          `json:"milestones"`
	YearlyBudgetBreakdown []any          `json:"yearly_budget_breakdown"`
	CostOverruns          map[string]any `json:"cost_overruns"`
	Reports               []any          `json:"reports"`
	VerificationDocuments []any          `json:"verification_documents"`
	Photos                []any          `json:"photos"`
	ContractorChangeLog   []any          `json:"contractor_change_log"`

	LastUpdated string `json:"last_updated"`
	Source      string `json:"source"`
	SourceAPI   string `json:"source_api"`
}

// NewCanonicalProject returns a record with every collection initialized, so
// the marshalled form always carries [] / {} rather than null.
func NewCanonicalProject() *CanonicalProject {
	return &CanonicalProject{
		Milestones:            []any{},
		YearlyBudgetBreakdown: []any{},
		CostOverruns:          map[string]any{},
		Reports:               []any{},
		VerificationDocuments: []any{},
		Photos:                []any{},
		ContractorChangeLog:   []any{},
	}
}
