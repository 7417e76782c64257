// Package query implements the in-memory user listing pipeline:
// filter, sort, paginate, and project a point-in-time user snapshot.
package query

import (
	"sort"
	"strings"

	"github.com/dfirmansy/userledger/internal/models"
	"github.com/dfirmansy/userledger/internal/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// BuildPage runs the full pipeline over a user snapshot and assembles one
// page of results with pagination metadata. The snapshot is not modified.
func BuildPage(snapshot []models.User, params types.ListUsersParams) types.UserPage {
	// Policy: clamp page to >= 1 and treat pageSize <= 0 as "no limit".
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 0 {
		pageSize = 0
	}

	matched := Filter(snapshot, params.Search)
	Sort(matched, params.Sort)

	total := len(matched)
	totalPages := 0
	switch {
	case pageSize > 0:
		totalPages = (total + pageSize - 1) / pageSize
	case total > 0:
		// No limit: everything fits on a single page.
		totalPages = 1
	}

	start, end := 0, total
	if pageSize > 0 {
		start = (page - 1) * pageSize
		if start > total {
			start = total
		}
		end = start + pageSize
		if end > total {
			end = total
		}
	}

	return types.UserPage{
		PageNumber:      page,
		PageSize:        pageSize,
		Count:           end - start,
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
		Data:            project(matched[start:end]),
	}
}

// Filter returns the users matching the search expression. A bare term
// matches name or email; "field:term" restricts the match to that field.
// An unrecognized field matches nothing rather than failing the request.
// All matching is case-insensitive containment.
func Filter(users []models.User, search string) []models.User {
	matched := make([]models.User, 0, len(users))
	if search == "" {
		return append(matched, users...)
	}

	term := strings.ToLower(search)
	if field, key, ok := strings.Cut(term, ":"); ok {
		for _, u := range users {
			switch field {
			case "name":
				if strings.Contains(strings.ToLower(u.Name), key) {
					matched = append(matched, u)
				}
			case "email":
				if strings.Contains(strings.ToLower(u.Email), key) {
					matched = append(matched, u)
				}
			}
		}
		return matched
	}

	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Email), term) {
			matched = append(matched, u)
		}
	}
	return matched
}

// Sort reorders users in place by a "field:direction" expression using
// locale-aware string comparison. A missing or malformed expression leaves
// the slice untouched; an unrecognized field is a stable no-op.
func Sort(users []models.User, sorting string) {
	if sorting == "" {
		return
	}
	parts := strings.Split(sorting, ":")
	if len(parts) != 2 {
		return
	}
	field, direction := parts[0], parts[1]
	if direction != "asc" && direction != "desc" {
		return
	}

	// Collators reuse internal buffers and are not safe for concurrent
	// use, so each call gets its own.
	coll := collate.New(language.Und, collate.Loose)
	compare := func(a, b models.User) int {
		switch field {
		case "name":
			return coll.CompareString(a.Name, b.Name)
		case "email":
			return coll.CompareString(a.Email, b.Email)
		default:
			return 0
		}
	}

	sort.SliceStable(users, func(i, j int) bool {
		c := compare(users[i], users[j])
		if direction == "desc" {
			return c > 0
		}
		return c < 0
	})
}

// project maps users to their public shape, dropping the password hash.
func project(users []models.User) []types.PublicUser {
	out := make([]types.PublicUser, len(users))
	for i, u := range users {
		out[i] = types.PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out
}
