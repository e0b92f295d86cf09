package models

// DashboardView is the payload behind the role-specific dashboard
// endpoints. IDInfo carries the faculty number or service email, or a
// fixed placeholder when the identifier has not been assigned yet.
type DashboardView struct {
	Title    string   `json:"title"`
	Role     Role     `json:"role"`
	FullName string   `json:"full_name"`
	IDInfo   string   `json:"id_info"`
	Notices  []string `json:"notices,omitempty"`
}
