package searchdirectory

import "edudesk/internal/repository"

type Input struct {
	SchoolID string `json:"schoolId"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
}

type Output struct {
	Total    int                       `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"pageSize"`
	Results  []repository.DirectoryHit `json:"results"`
}
