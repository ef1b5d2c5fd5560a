package normalize

import "github.com/nepaldata/projectgraph/internal/models"

// NormalizeADBJSON maps one raw ADB Data API record to the canonical form.
// Returns nil when no title can be derived (the record is skipped).
func NormalizeADBJSON(raw map[string]any) *models.CanonicalProject {
	projectID := first(raw, []accessor{
		key("id"), key("project_id"), key("projectId"),
		key("project_number"), key("projectNumber"),
	})

	title := CleanTitle(firstOr(raw, []accessor{
		key("title"), key("name"), key("project_name"), key("projectName"),
	}, projectID))
	if title == "" {
		return nil
	}

	countryCode := toUpper(first(raw, []accessor{
		key("country_code"), key("countryCode"),
		key("recipient_country"), key("recipientCountry"),
	}))
	country := "Nepal"
	if countryCode != "" && countryCode != "NP" {
		country = firstOr(raw, []accessor{key("country")}, "Nepal")
	}
	if countryCode == "" {
		countryCode = "NP"
	}

	rec := models.NewCanonicalProject()
	rec.ProjectID = projectID
	rec.Title = title
	rec.Description = first(raw, []accessor{
		key("description"), key("project_description"),
		key("projectDescription"), key("summary"),
	})
	rec.ImplementingAgency = first(raw, []accessor{
		key("implementing_agency"), key("implementingAgency"),
		key("executing_agency"), key("executingAgency"), key("agency"),
	})
	rec.StartDate = first(raw, []accessor{
		key("start_date"), key("startDate"),
		key("approval_date"), key("approvalDate"),
	})
	rec.EndDate = first(raw, []accessor{
		key("end_date"), key("endDate"),
		key("closing_date"), key("closingDate"),
	})
	rec.Location = models.ProjectLocation{
		Country:     country,
		CountryCode: countryCode,
		Region: first(raw, []accessor{
			key("region"), key("project_region"), key("location"),
		}),
		Province:     first(raw, []accessor{key("province")}),
		District:     first(raw, []accessor{key("district")}),
		Municipality: first(raw, []accessor{key("municipality")}),
	}
	rec.FundingSource = firstOr(raw, []accessor{
		key("funding_source"), key("funder"), key("financier"),
	}, "Asian Development Bank")
	rec.TotalAllocatedBudget = first(raw, []accessor{
		key("total_amount"), key("totalAmount"), key("amount"), key("budget"),
	})
	rec.RealTimeSpending = first(raw, []accessor{
		key("spending"), key("disbursement"),
	})
	rec.LoanAmount = first(raw, []accessor{key("loan_amount"), key("loanAmount")})
	rec.GrantAmount = first(raw, []accessor{key("grant_amount"), key("grantAmount")})
	rec.PhysicalProgress = first(raw, []accessor{
		key("physical_progress"), key("physicalProgress"),
	})
	rec.FinancialProgress = first(raw, []accessor{
		key("financial_progress"), key("financialProgress"),
	})
	rec.Borrower = first(raw, []accessor{key("borrower"), key("borrowing_entity")})
	rec.Sector = first(raw, []accessor{
		key("sector"), key("project_sector"), key("sector_name"),
	})
	rec.MajorTheme = first(raw, []accessor{
		key("theme"), key("major_theme"), key("category"),
	})
	rec.EnvironmentalCategory = first(raw, []accessor{
		key("environmental_category"), key("environmentCategory"),
	})
	rec.ImplementationStatus = first(raw, []accessor{
		key("status"), key("project_status"), key("implementationStatus"),
	})
	rec.URL = firstOr(raw, []accessor{
		key("url"), key("project_url"), key("projectUrl"),
	}, adbProjectURL(projectID))
	rec.ProjectDocumentURL = first(raw, []accessor{
		key("document_url"), key("documents_url"), key("docsUrl"),
	})

	rec.Milestones = listField(raw, "milestones", "milestone")
	rec.YearlyBudgetBreakdown = listField(raw, "yearly_budget", "annualBudget")
	rec.CostOverruns = mapField(raw, "cost_overruns", "budget_overruns")
	rec.Reports = listField(raw, "reports", "project_reports")
	rec.VerificationDocuments = listField(raw, "documents", "verification_docs")
	rec.Photos = listField(raw, "photos", "images")
	rec.ContractorChangeLog = listField(raw, "contractors", "contractor_log")

	rec.LastUpdated = stamp()
	rec.Source = "ADB (Asian Development Bank)"
	rec.SourceAPI = "ADB Data API (JSON)"
	return rec
}

func adbProjectURL(projectID string) string {
	if projectID == "" {
		return ""
	}
	return "https://www.adb.org/projects/" + projectID
}
