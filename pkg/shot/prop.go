package shot

import (
	"strconv"
	"strings"

	"github.com/matzehuels/shotgrid/pkg/errors"
)

// PropType is the data type of a user-defined shot tag.
type PropType string

const (
	// PropBool holds 0 or 1.
	PropBool PropType = "bool"
	// PropInt holds an integer within [Min, Max].
	PropInt PropType = "int"
	// PropEnum holds the index of one item.
	PropEnum PropType = "enum"
	// PropFlags holds a bitmask; item i is bit 1<<i.
	PropFlags PropType = "flags"
)

// maxFlagItems bounds flag tags to the bits of a non-negative int32.
const maxFlagItems = 31

// EnumItem is one option of an enum or flags tag.
type EnumItem struct {
	Name        string `json:"name" yaml:"name" bson:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
}

// PropDef defines a tag that every shot of the edit carries. The ID never
// changes after creation; the name is free to edit.
type PropDef struct {
	ID          string     `json:"id" yaml:"id" bson:"id"`
	Name        string     `json:"name" yaml:"name" bson:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Type        PropType   `json:"type" yaml:"type" bson:"type"`
	Min         int        `json:"min,omitempty" yaml:"min,omitempty" bson:"min,omitempty"`
	Max         int        `json:"max,omitempty" yaml:"max,omitempty" bson:"max,omitempty"`
	Items       []EnumItem `json:"items,omitempty" yaml:"items,omitempty" bson:"items,omitempty"`
	Color       Color      `json:"color" yaml:"color" bson:"color"`
}

// Groupable reports whether shots can be grouped by this tag.
func (p *PropDef) Groupable() bool {
	return p.Type == PropEnum || p.Type == PropFlags
}

// Bit returns the flag bit of item i.
func Bit(i int) int { return 1 << i }

// Has reports whether flag item i is set in a flags value.
func Has(value, i int) bool { return value&Bit(i) != 0 }

// Format renders a value for people: bools as true/false, enums by item
// name, flags as item names joined by "|" and ints as numbers.
func (p *PropDef) Format(v int) string {
	switch p.Type {
	case PropBool:
		return strconv.FormatBool(v != 0)
	case PropEnum:
		if v >= 0 && v < len(p.Items) {
			return p.Items[v].Name
		}
		return ""
	case PropFlags:
		var names []string
		for i, it := range p.Items {
			if Has(v, i) {
				names = append(names, it.Name)
			}
		}
		return strings.Join(names, "|")
	}
	return strconv.Itoa(v)
}

// Check validates a value against the definition.
func (p *PropDef) Check(v int) error {
	switch p.Type {
	case PropBool:
		if v != 0 && v != 1 {
			return errors.New(errors.ErrCodeInvalidTag, "%s: bool value must be 0 or 1, got %d", p.Name, v)
		}
	case PropInt:
		if v < p.Min || v > p.Max {
			return errors.New(errors.ErrCodeInvalidTag, "%s: value %d outside [%d, %d]", p.Name, v, p.Min, p.Max)
		}
	case PropEnum:
		if v < 0 || v >= len(p.Items) {
			return errors.New(errors.ErrCodeInvalidTag, "%s: no item %d", p.Name, v)
		}
	case PropFlags:
		if v < 0 || v >= Bit(len(p.Items)) {
			return errors.New(errors.ErrCodeInvalidTag, "%s: flags %#x set unknown items", p.Name, v)
		}
	default:
		return errors.New(errors.ErrCodeInvalidTag, "%s: unknown type %q", p.Name, p.Type)
	}
	return nil
}

// Clamp brings v into the definition's range.
func (p *PropDef) Clamp(v int) int {
	switch p.Type {
	case PropBool:
		if v != 0 {
			return 1
		}
		return 0
	case PropInt:
		return min(max(v, p.Min), p.Max)
	case PropEnum:
		if v < 0 || v >= len(p.Items) {
			return 0
		}
		return v
	case PropFlags:
		return v & (Bit(len(p.Items)) - 1)
	}
	return 0
}

// Default returns the value a shot has before it is tagged.
func (p *PropDef) Default() int {
	if p.Type == PropInt {
		return max(0, p.Min)
	}
	return 0
}

func (p *PropDef) validate() error {
	if p.ID == "" {
		return errors.New(errors.ErrCodeInvalidEdit, "tag %q has no id", p.Name)
	}
	if err := errors.ValidateName(p.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidEdit, err, "tag %s", p.ID)
	}
	switch p.Type {
	case PropBool:
	case PropInt:
		if p.Min > p.Max {
			return errors.New(errors.ErrCodeInvalidEdit, "tag %q: min %d above max %d", p.Name, p.Min, p.Max)
		}
	case PropEnum, PropFlags:
		if len(p.Items) == 0 {
			return errors.New(errors.ErrCodeInvalidEdit, "tag %q has no items", p.Name)
		}
		if p.Type == PropFlags && len(p.Items) > maxFlagItems {
			return errors.New(errors.ErrCodeInvalidEdit, "tag %q has more than %d flags", p.Name, maxFlagItems)
		}
	default:
		return errors.New(errors.ErrCodeInvalidEdit, "tag %q has unknown type %q", p.Name, p.Type)
	}
	return nil
}
