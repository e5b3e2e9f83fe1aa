package catalog

import (
	"fmt"
	"strings"
)

// Family groups units for skill and equipment availability.
type Family string

const (
	Striker   Family = "STRIKER"
	Breaker   Family = "BREAKER"
	Healer    Family = "HEALER"
	Lancer    Family = "LANCER"
	Entropist Family = "ENTROPIST"
	Stunner   Family = "STUNNER"
	Mover     Family = "MOVER"
)

var families = []Family{Striker, Breaker, Healer, Lancer, Entropist, Stunner, Mover}

// ParseFamily resolves a family name, case-insensitively.
func ParseFamily(s string) (Family, error) {
	f := Family(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range families {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown family %q", s)
}

// Category describes a unit's body type; used for damage effectiveness.
type Category string

const (
	Humanoid Category = "humanoid"
	Bestial  Category = "bestial"
	Insect   Category = "insect"
	Flier    Category = "flier"
)

// ParseCategory resolves a category name, case-insensitively. Empty means Humanoid.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case "":
		return Humanoid, nil
	case Humanoid, Bestial, Insect, Flier:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func familyIn(f Family, fs []Family) bool {
	if len(fs) == 0 {
		return true
	}
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}
