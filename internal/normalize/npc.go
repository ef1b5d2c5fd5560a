package normalize

import "github.com/nepaldata/projectgraph/internal/models"

// NormalizeNPC maps one raw NPBMIS record to the canonical form. Returns nil
// when no title can be derived.
func NormalizeNPC(raw map[string]any) *models.CanonicalProject {
	projectID := first(raw, []accessor{
		key("id"), key("project_id"), key("code"), key("projectId"),
	})

	title := CleanTitle(first(raw, []accessor{
		key("project_name_in_english"), key("project_name"),
		key("title"), key("name"), key("projectName"),
	}))
	if title == "" {
		return nil
	}

	rec := models.NewCanonicalProject()
	rec.ProjectID = projectID
	rec.Title = title
	rec.Description = first(raw, []accessor{
		key("project_name_in_english"), key("description"),
		key("details"), key("detail"), key("summary"),
	})
	rec.ImplementingAgency = first(raw, []accessor{
		nested("ministry", "name"),
		key("implementing_agency"), key("implementing_body"),
		key("executing_agency"), key("implementingAgency"), key("executingAgency"),
	})
	rec.StartDate = first(raw, []accessor{
		key("start_date"), key("commencement_date"), key("begin_date"),
		key("startDate"), key("commencementDate"),
	})
	rec.EndDate = first(raw, []accessor{
		key("end_date"), key("completion_date"), key("finish_date"),
		key("endDate"), key("completionDate"),
	})
	rec.Location = models.ProjectLocation{
		Country:     "Nepal",
		CountryCode: "NP",
		Region: first(raw, []accessor{
			key("region"), nested("locationInfo", "region"),
		}),
		Province: first(raw, []accessor{
			nested("locationInfo", "province"),
			key("province"), key("province_name"), key("state"),
			key("provinceName"), key("stateName"), key("state_name"),
		}),
		District: first(raw, []accessor{
			nested("locationInfo", "district"),
			key("district"), key("district_name"), key("districtName"),
		}),
		Municipality: first(raw, []accessor{
			nested("locationInfo", "municipality"),
			key("municipality"), key("local_level"), key("vdc"),
			key("municipalityName"), key("localLevel"), key("vdcName"),
		}),
	}
	rec.FundingSource = firstOr(raw, []accessor{
		key("funding_source"), key("fundingSource"),
	}, "Government of Nepal")
	rec.TotalAllocatedBudget = first(raw, []accessor{
		key("budget"), key("allocated_budget"), key("totalEstimateBudget"),
		key("amount"), key("totalBudget"), key("allocatedBudget"),
	})
	rec.RealTimeSpending = first(raw, []accessor{
		key("spending"), key("expenditure"),
		key("realTimeSpending"), key("expenditureAmount"),
	})
	rec.LoanAmount = first(raw, []accessor{key("loan_amount"), key("loanAmount")})
	rec.GrantAmount = first(raw, []accessor{key("grant_amount"), key("grantAmount")})
	rec.PhysicalProgress = first(raw, []accessor{
		key("physical_progress"), key("physicalProgress"),
	})
	rec.FinancialProgress = first(raw, []accessor{
		key("financial_progress"), key("financialProgress"),
	})
	rec.Borrower = first(raw, []accessor{
		key("borrower"), key("executing_agency"), key("borrowerName"),
	})
	rec.Sector = first(raw, []accessor{
		key("sector"), key("sector_name"), key("category"),
		key("sectorName"), key("categoryName"), key("sectorType"),
	})
	rec.MajorTheme = first(raw, []accessor{
		key("major_theme"), key("theme"), key("majorTheme"), key("themeName"),
	})
	rec.EnvironmentalCategory = first(raw, []accessor{
		key("environmental_category"), key("eco_category"),
		key("environmentalCategory"), key("environmentalRiskCategory"),
	})
	rec.ImplementationStatus = first(raw, []accessor{
		key("status"), key("implementation_status"), key("current_status"),
		key("implementationStatus"), key("currentStatus"), key("projectStatus"),
	})
	rec.URL = firstOr(raw, []accessor{
		key("url"), key("project_url"), key("projectUrl"),
	}, npcProjectURL(projectID))
	rec.ProjectDocumentURL = first(raw, []accessor{
		key("document_url"), key("docs_url"), key("documentUrl"), key("documentsUrl"),
	})

	rec.Milestones = listField(raw, "milestones", "projectMilestones", "milestone")
	rec.YearlyBudgetBreakdown = listField(raw, "yearly_budget_breakdown", "yearlyBudgetBreakdown", "annualBudget")
	rec.CostOverruns = mapField(raw, "cost_overruns", "costOverruns", "budgetOverrun")
	rec.Reports = listField(raw, "reports", "projectReports", "report")
	rec.VerificationDocuments = listField(raw, "verification_documents", "verificationDocuments", "auditReports")
	rec.Photos = listField(raw, "photos", "images", "photosList")
	rec.ContractorChangeLog = listField(raw, "contractor_change_log", "contractorChangeLog", "contractorHistory")

	rec.LastUpdated = stamp()
	rec.Source = "NPC (National Planning Commission)"
	rec.SourceAPI = "NPC API (NPBMIS)"
	return rec
}

func npcProjectURL(projectID string) string {
	if projectID == "" {
		return ""
	}
	return "https://npbmis.npc.gov.np/projects/" + projectID
}
