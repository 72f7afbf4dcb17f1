package shared

// Filter carries paging, ordering, and repository-specific criteria
// for list queries. Keys in Filters are interpreted by each
// repository; unknown keys are ignored.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Filters  map[string]interface{}
}
