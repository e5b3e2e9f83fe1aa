// Package catalog defines the static game entities units carry into battle:
// equipment, skills and the effects skills produce.
package catalog

import "github.com/google/uuid"

// Info is the identity shared by every catalog entity. The ID is generated once
// at construction and cannot be reassigned.
type Info struct {
	id          string
	Name        string
	Description string
}

// NewInfo returns an Info with a fresh random ID.
func NewInfo(name, description string) Info {
	return Info{id: uuid.New().String(), Name: name, Description: description}
}

// ID returns the entity's unique identifier.
func (i Info) ID() string { return i.id }
