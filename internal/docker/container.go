package docker

import (
	"strings"
	"time"
)

const (
	LabelComposeProject = "com.docker.compose.project"
	LabelComposeService = "com.docker.compose.service"
)

// Container represents a Docker container with compose metadata
type Container struct {
	ID             string
	Name           string
	Status         string
	State          string
	ComposeProject string
	ComposeService string
	Image          string
	Created        time.Time
}

// DisplayName returns the best name to display for the container
func (c Container) DisplayName() string {
	if c.ComposeService != "" {
		return c.ComposeService
	}
	return c.Name
}

// Matches reports whether name refers to this container, by exact or partial
// match against the compose service or container name (case-insensitive)
func (c Container) Matches(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	service := strings.ToLower(c.ComposeService)
	cname := strings.ToLower(c.Name)
	return service == name || cname == name ||
		strings.Contains(cname, name) || strings.Contains(service, name)
}

// MatchContainers returns the containers matching any of names, without duplicates,
// in the order the names were given
func MatchContainers(containers []Container, names []string) []Container {
	var matched []Container
	seen := make(map[string]bool)
	for _, name := range names {
		for _, c := range containers {
			if seen[c.ID] || !c.Matches(name) {
				continue
			}
			seen[c.ID] = true
			matched = append(matched, c)
		}
	}
	return matched
}
