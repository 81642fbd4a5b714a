package shot

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/shotgrid/pkg/errors"
)

// ID prefixes for generated identifiers.
const (
	PropIDPrefix  = "cp_"
	SceneIDPrefix = "sc_"
)

// NewID returns prefix followed by eight random hex digits.
func NewID(prefix string) string {
	return prefix + uuid.NewString()[:8]
}

// UniqueName returns base if no existing name equals it, otherwise base with
// the lowest free numeric suffix: "Scene", "Scene.001", "Scene.002".
func UniqueName(base string, existing []string) string {
	if !slices.Contains(existing, base) {
		return base
	}
	used := make(map[int]bool)
	prefix := base + "."
	for _, name := range existing {
		suffix, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > 0 {
			used[n] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}
	return fmt.Sprintf("%s.%03d", base, n)
}

// =============================================================================
// Tag definitions
// =============================================================================

func (e *Edit) propNames() []string {
	names := make([]string, len(e.Props))
	for i, p := range e.Props {
		names[i] = p.Name
	}
	return names
}

func (e *Edit) prop(id string) (*PropDef, error) {
	i := e.FindProp(id)
	if i < 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "tag %q not found", id)
	}
	return &e.Props[i], nil
}

// AddProp appends a new tag definition. Enum and flags tags need at least one
// item. The name is made unique among existing tags.
func (e *Edit) AddProp(def PropDef) (*PropDef, error) {
	if def.Name == "" {
		def.Name = "Tag"
	}
	def.Name = UniqueName(def.Name, e.propNames())
	def.ID = NewID(PropIDPrefix)
	if def.Color == (Color{}) {
		def.Color = IndexColor(len(e.Props))
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	e.Props = append(e.Props, def)
	return &e.Props[len(e.Props)-1], nil
}

// inUse reports whether any shot carries a value for the tag.
func (e *Edit) inUse(id string) bool {
	for _, s := range e.Shots {
		if _, ok := s.Tags[id]; ok {
			return true
		}
	}
	return false
}

// ConfigureProp replaces the editable fields of a tag definition. The type
// cannot change once any shot has a value for the tag. Existing values are
// clamped into a narrowed range or item list.
func (e *Edit) ConfigureProp(id string, upd PropDef) error {
	p, err := e.prop(id)
	if err != nil {
		return err
	}
	if upd.Type != p.Type && e.inUse(p.ID) {
		return errors.New(errors.ErrCodeInvalidTag, "tag %q is in use; its type cannot change", p.Name)
	}

	next := *p
	if upd.Name != "" && upd.Name != p.Name {
		next.Name = UniqueName(upd.Name, e.propNames())
	}
	next.Description = upd.Description
	next.Type = upd.Type
	next.Min, next.Max = upd.Min, upd.Max
	next.Items = upd.Items
	if upd.Color != (Color{}) {
		next.Color = upd.Color
	}
	if err := next.validate(); err != nil {
		return err
	}
	*p = next

	for i := range e.Shots {
		if v, ok := e.Shots[i].Tags[p.ID]; ok {
			e.Shots[i].Tags[p.ID] = p.Clamp(v)
		}
	}
	return nil
}

// RemoveProp deletes a tag definition and its value from every shot.
func (e *Edit) RemoveProp(id string) error {
	i := e.FindProp(id)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "tag %q not found", id)
	}
	pid := e.Props[i].ID
	e.Props = slices.Delete(e.Props, i, i+1)
	for j := range e.Shots {
		delete(e.Shots[j].Tags, pid)
	}
	return nil
}

// SetTag sets a shot's tag to v after validating it against the definition.
func (e *Edit) SetTag(shot int, propID string, v int) error {
	if shot < 0 || shot >= len(e.Shots) {
		return errors.New(errors.ErrCodeNotFound, "no shot at index %d", shot)
	}
	p, err := e.prop(propID)
	if err != nil {
		return err
	}
	if err := p.Check(v); err != nil {
		return err
	}
	s := &e.Shots[shot]
	if s.Tags == nil {
		s.Tags = make(map[string]int)
	}
	s.Tags[p.ID] = v
	return nil
}

// ToggleTag advances a shot's tag the way a single click on a thumbnail
// does: bools flip, ints step up and wrap to Min after Max, enums select
// item, and flags toggle bit item. It returns the new value.
func (e *Edit) ToggleTag(shot int, propID string, item int) (int, error) {
	if shot < 0 || shot >= len(e.Shots) {
		return 0, errors.New(errors.ErrCodeNotFound, "no shot at index %d", shot)
	}
	p, err := e.prop(propID)
	if err != nil {
		return 0, err
	}
	prev, ok := e.Shots[shot].Tags[p.ID]
	if !ok {
		prev = p.Default()
	}

	var next int
	switch p.Type {
	case PropBool:
		next = 1 - p.Clamp(prev)
	case PropInt:
		next = prev + 1
		if next > p.Max {
			next = p.Min
		}
	case PropEnum:
		next = item
	case PropFlags:
		if item < 0 || item >= len(p.Items) {
			return 0, errors.New(errors.ErrCodeInvalidTag, "%s: no item %d", p.Name, item)
		}
		next = prev ^ Bit(item)
	}
	if err := e.SetTag(shot, p.ID, next); err != nil {
		return 0, err
	}
	return next, nil
}

// =============================================================================
// Scenes
// =============================================================================

func (e *Edit) sceneNames() []string {
	names := make([]string, len(e.Scenes))
	for i, s := range e.Scenes {
		names[i] = s.Name
	}
	return names
}

// AddScene appends a scene with a unique name and the next palette color.
func (e *Edit) AddScene(name string) *Scene {
	if strings.TrimSpace(name) == "" {
		name = "Scene"
	}
	e.Scenes = append(e.Scenes, Scene{
		ID:    NewID(SceneIDPrefix),
		Name:  UniqueName(name, e.sceneNames()),
		Color: IndexColor(len(e.Scenes)),
	})
	return &e.Scenes[len(e.Scenes)-1]
}

// RenameScene changes a scene's display name, keeping names unique.
func (e *Edit) RenameScene(id, name string) error {
	i := e.FindScene(id)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "scene %q not found", id)
	}
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if name == e.Scenes[i].Name {
		return nil
	}
	e.Scenes[i].Name = UniqueName(name, e.sceneNames())
	return nil
}

// RemoveScene deletes a scene and unassigns its shots.
func (e *Edit) RemoveScene(id string) error {
	i := e.FindScene(id)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "scene %q not found", id)
	}
	sid := e.Scenes[i].ID
	e.Scenes = slices.Delete(e.Scenes, i, i+1)
	for j := range e.Shots {
		if e.Shots[j].SceneID == sid {
			e.Shots[j].SceneID = ""
		}
	}
	return nil
}

// ClearScenes deletes every scene and unassigns all shots.
func (e *Edit) ClearScenes() {
	e.Scenes = nil
	for j := range e.Shots {
		e.Shots[j].SceneID = ""
	}
}

// MoveScene shifts a scene delta positions in the scene order. Moves past
// either end are ignored. It returns the scene's new index.
func (e *Edit) MoveScene(id string, delta int) (int, error) {
	i := e.FindScene(id)
	if i < 0 {
		return -1, errors.New(errors.ErrCodeNotFound, "scene %q not found", id)
	}
	j := i + delta
	if j < 0 || j >= len(e.Scenes) {
		return i, nil
	}
	sc := e.Scenes[i]
	e.Scenes = slices.Delete(e.Scenes, i, i+1)
	e.Scenes = slices.Insert(e.Scenes, j, sc)
	return j, nil
}

// AssignScene puts the given shots in a scene. An empty scene ID unassigns
// them.
func (e *Edit) AssignScene(sceneID string, shots ...int) error {
	sid := ""
	if sceneID != "" {
		i := e.FindScene(sceneID)
		if i < 0 {
			return errors.New(errors.ErrCodeNotFound, "scene %q not found", sceneID)
		}
		sid = e.Scenes[i].ID
	}
	for _, idx := range shots {
		if idx < 0 || idx >= len(e.Shots) {
			return errors.New(errors.ErrCodeNotFound, "no shot at index %d", idx)
		}
	}
	for _, idx := range shots {
		e.Shots[idx].SceneID = sid
	}
	return nil
}
