package models

import (
	"time"
)

// Project is a group of roster members working together.
type Project struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Users       []ProjectRef `json:"users"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProjectRef references a roster member by identifier.
type ProjectRef struct {
	ID string `json:"id"`
}

// NewProject creates a new Project with initialized timestamps.
func NewProject(name, description string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasMember reports whether the member with the given id participates.
func (p *Project) HasMember(memberID string) bool {
	for _, u := range p.Users {
		if u.ID == memberID {
			return true
		}
	}
	return false
}

// MemberIDs returns the identifiers of all participants.
func (p *Project) MemberIDs() []string {
	ids := make([]string, len(p.Users))
	for i, u := range p.Users {
		ids[i] = u.ID
	}
	return ids
}
