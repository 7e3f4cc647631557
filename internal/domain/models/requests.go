package models

// BriefRequest carries the query flags shared by the read endpoints.
type BriefRequest struct {
	Force bool `query:"force" json:"force"`
}

// RefreshRequest narrows a refresh to one surface, or all when empty.
type RefreshRequest struct {
	Target string `query:"target" json:"target" default:"all" validate:"oneof=all brief snapshot pulse"`
}
