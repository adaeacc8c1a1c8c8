package roster

import (
	"fmt"

	"github.com/good-yellow-bee/modites/internal/models"
)

// NoProjectsMessage is rendered when a member participates in no project.
const NoProjectsMessage = "No current projects"

// ProjectsFor returns the projects whose membership contains memberID,
// in their original order.
func ProjectsFor(projects []*models.Project, memberID string) []*models.Project {
	var matches []*models.Project
	for _, p := range projects {
		if p != nil && p.HasMember(memberID) {
			matches = append(matches, p)
		}
	}
	return matches
}

// ProjectHeading returns the count-qualified projects heading.
func ProjectHeading(count int) string {
	if count == 0 {
		return "Projects"
	}
	return fmt.Sprintf("Projects (%d)", count)
}
