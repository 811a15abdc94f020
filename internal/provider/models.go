package provider

// ModelType identifies a standard data model a fetcher produces. Each
// ModelType maps to a data structure in pkg/models/.
type ModelType string

const (
	// ModelCompanySearch → []models.CompanySearchResult
	ModelCompanySearch ModelType = "CompanySearch"

	// ModelFilingIndex → *edgar.FilingSet (filing records with resolved content)
	ModelFilingIndex ModelType = "FilingIndex"

	// ModelItemContent → []models.ItemContentBlock
	ModelItemContent ModelType = "ItemContent"

	// ModelFilingFeed → []models.FilingFeedEntry
	ModelFilingFeed ModelType = "FilingFeed"
)

// AllModels returns every defined model type.
func AllModels() []ModelType {
	return []ModelType{
		ModelCompanySearch,
		ModelFilingIndex,
		ModelItemContent,
		ModelFilingFeed,
	}
}

// ModelCategory groups model types for display.
func ModelCategory(m ModelType) string {
	switch m {
	case ModelCompanySearch:
		return "Company"
	case ModelFilingIndex, ModelFilingFeed:
		return "Filings"
	case ModelItemContent:
		return "Content"
	default:
		return "Other"
	}
}
