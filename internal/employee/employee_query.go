package employee

import (
	"sort"
	"strings"
)

// ListQuery filters and orders the directory listing. Filtering happens in memory on the
// service result.
type ListQuery struct {
	Search    string `form:"q"`
	Role      string `form:"role" binding:"omitempty,oneof=EMPLOYEE MANAGER HR ADMIN"`
	ManagerID string `form:"manager_id" binding:"omitempty,uuid"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=name email id number"`
	SortDir   string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (q ListQuery) normalized() ListQuery {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	if q.SortBy == "" {
		q.SortBy = "name"
	}
	if q.SortDir == "" {
		q.SortDir = "asc"
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 10
	}
	return q
}

func (q ListQuery) matches(e EmployeeResponse) bool {
	if q.Role != "" && e.Role != q.Role {
		return false
	}
	if q.ManagerID != "" && (e.ManagerID == nil || !strings.EqualFold(*e.ManagerID, q.ManagerID)) {
		return false
	}
	if q.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.FullName), q.Search) ||
		strings.Contains(strings.ToLower(e.Email), q.Search) ||
		strings.Contains(strings.ToLower(e.EmployeeNumber), q.Search)
}

func (q ListQuery) sortKey(e EmployeeResponse) string {
	switch q.SortBy {
	case "email":
		return strings.ToLower(e.Email)
	case "id":
		return e.ID
	case "number":
		return e.EmployeeNumber
	}
	return strings.ToLower(e.FullName)
}

// Apply filters and sorts list. Sorting is stable so ties keep the service order.
func (q ListQuery) Apply(list []EmployeeResponse) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for _, e := range list {
		if q.matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.SortDir == "desc" {
			return q.sortKey(out[i]) > q.sortKey(out[j])
		}
		return q.sortKey(out[i]) < q.sortKey(out[j])
	})
	return out
}
