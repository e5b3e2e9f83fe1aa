package catalog

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/stats"
)

// Slot is the body location a piece of equipment occupies.
type Slot string

const (
	Helm      Slot = "HELM"
	Chest     Slot = "CHEST"
	Gloves    Slot = "GLOVES"
	Greaves   Slot = "GREAVES"
	Boots     Slot = "BOOTS"
	Accessory Slot = "ACCESSORY"
)

// ParseSlot resolves a slot name, case-insensitively.
func ParseSlot(s string) (Slot, error) {
	slot := Slot(strings.ToUpper(strings.TrimSpace(s)))
	switch slot {
	case Helm, Chest, Gloves, Greaves, Boots, Accessory:
		return slot, nil
	}
	return "", fmt.Errorf("unknown equipment slot %q", s)
}

// Equipment is a wearable item whose Bonus is added to the wearer's current stats.
type Equipment struct {
	Info
	Families []Family
	Slot     Slot
	Bonus    stats.Set
}

// NewEquipment builds an Equipment with a fresh ID.
func NewEquipment(name, description string, slot Slot, bonus stats.Set, families ...Family) *Equipment {
	return &Equipment{
		Info:     NewInfo(name, description),
		Families: families,
		Slot:     slot,
		Bonus:    bonus,
	}
}

// UsableBy reports whether a unit of family f may wear the item.
// An item with no families listed is usable by everyone.
func (e *Equipment) UsableBy(f Family) bool {
	return familyIn(f, e.Families)
}
