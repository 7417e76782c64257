// Package types provides shared request/response types for the userledger service.
package types

// ListUsersParams represents query parameters for the user listing pipeline.
// Page is 1-based; values below 1 are clamped to 1. PageSize <= 0 means
// "no limit": all matching records are returned on a single page.
type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Sort     string
}

// PublicUser is the projected user shape exposed by the API.
// The password hash is dropped unconditionally.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPage is one page of the filtered, sorted user listing plus
// pagination metadata.
type UserPage struct {
	PageNumber      int          `json:"page_number"`
	PageSize        int          `json:"page_size"`
	Count           int          `json:"count"`
	TotalPages      int          `json:"total_pages"`
	HasPreviousPage bool         `json:"has_previous_page"`
	HasNextPage     bool         `json:"has_next_page"`
	Data            []PublicUser `json:"data"`
}
