package schema

// PageParams are the shared pagination query parameters.
type PageParams struct {
	Page    int `query:"page" minimum:"1" default:"1"`
	PerPage int `query:"perPage" minimum:"1" maximum:"100" default:"20"`
}

// Paginated is the envelope returned by /paginated list endpoints.
type Paginated[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
}
