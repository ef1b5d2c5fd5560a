package normalize

import "github.com/nepaldata/projectgraph/internal/models"

// NormalizeWorldBank maps one World Bank record to the canonical form. The
// scraped World Bank feed is already close to canonical shape, so the chains
// here are mostly identity reads with a couple of legacy key variants.
func NormalizeWorldBank(raw map[string]any) *models.CanonicalProject {
	title := CleanTitle(first(raw, []accessor{key("title"), key("project_name")}))
	if title == "" {
		return nil
	}

	projectID := first(raw, []accessor{key("project_id"), key("id")})

	rec := models.NewCanonicalProject()
	rec.ProjectID = projectID
	rec.Title = title
	rec.Description = first(raw, []accessor{key("description")})
	rec.ImplementingAgency = first(raw, []accessor{key("implementing_agency")})
	rec.StartDate = first(raw, []accessor{key("start_date"), key("boardapprovaldate")})
	rec.EndDate = first(raw, []accessor{key("end_date"), key("closingdate")})
	rec.Location = models.ProjectLocation{
		Country:      first(raw, []accessor{nested("location", "country"), key("countryname")}),
		CountryCode:  first(raw, []accessor{nested("location", "country_code"), key("countrycode")}),
		Region:       first(raw, []accessor{nested("location", "region"), key("regionname")}),
		Province:     first(raw, []accessor{nested("location", "province")}),
		District:     first(raw, []accessor{nested("location", "district")}),
		Municipality: first(raw, []accessor{nested("location", "municipality")}),
	}
	rec.FundingSource = firstOr(raw, []accessor{key("funding_source")}, "World Bank")
	rec.TotalAllocatedBudget = first(raw, []accessor{
		key("total_allocated_budget"), key("totalamt"),
	})
	rec.RealTimeSpending = first(raw, []accessor{key("real_time_spending")})
	rec.LoanAmount = first(raw, []accessor{key("loan_amount"), key("lendamt")})
	rec.GrantAmount = first(raw, []accessor{key("grant_amount"), key("grantamt")})
	rec.PhysicalProgress = first(raw, []accessor{key("physical_progress")})
	rec.FinancialProgress = first(raw, []accessor{key("financial_progress")})
	rec.Borrower = first(raw, []accessor{key("borrower")})
	rec.Sector = first(raw, []accessor{key("sector"), key("major_theme_sector")})
	rec.MajorTheme = first(raw, []accessor{key("major_theme"), key("theme")})
	rec.EnvironmentalCategory = first(raw, []accessor{key("environmental_category"), key("envassesmentcategorycode")})
	rec.ImplementationStatus = first(raw, []accessor{key("implementation_status"), key("status")})
	rec.URL = firstOr(raw, []accessor{key("url")}, worldBankProjectURL(projectID))
	rec.ProjectDocumentURL = first(raw, []accessor{key("project_document_url")})

	rec.Milestones = listField(raw, "milestones")
	rec.YearlyBudgetBreakdown = listField(raw, "yearly_budget_breakdown")
	rec.CostOverruns = mapField(raw, "cost_overruns")
	rec.Reports = listField(raw, "reports")
	rec.VerificationDocuments = listField(raw, "verification_documents")
	rec.Photos = listField(raw, "photos")
	rec.ContractorChangeLog = listField(raw, "contractor_change_log")

	rec.LastUpdated = stamp()
	rec.Source = "World Bank"
	rec.SourceAPI = "World Bank Projects API"
	return rec
}

func worldBankProjectURL(projectID string) string {
	if projectID == "" {
		return ""
	}
	return "https://projects.worldbank.org/en/projects/" + projectID
}
