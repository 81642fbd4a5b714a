package shot

import (
	"strconv"
	"strings"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/layout"
)

// SceneKey is the grouping key that selects scenes instead of a tag.
const SceneKey = "scene"

// UnassignedName is the header of the catch-all group.
const UnassignedName = "Unassigned"

// UnassignedID is the ID of the catch-all group.
const UnassignedID = "_unassigned"

// Kind says whether a criterion assigns a shot to at most one group or to
// any number of them.
type Kind int

const (
	// KindSingle places each shot in at most one group.
	KindSingle Kind = iota
	// KindFlag places a shot in every group whose flag it has set.
	KindFlag
)

func (k Kind) String() string {
	if k == KindFlag {
		return "flag"
	}
	return "single"
}

// Bucket is one group a criterion can assign shots to.
type Bucket struct {
	ID   string
	Name string
}

// Criterion decides which groups each shot belongs to.
type Criterion interface {
	// Key identifies the criterion, e.g. "scene" or a tag ID.
	Key() string
	Kind() Kind
	// Buckets returns the groups in display order.
	Buckets() []Bucket
	// Extract returns the bucket indices of s in ascending order. An empty
	// result means the shot is unassigned.
	Extract(s Shot) []int
}

type sceneCriterion struct {
	buckets []Bucket
	index   map[string]int
}

func (c *sceneCriterion) Key() string       { return SceneKey }
func (c *sceneCriterion) Kind() Kind        { return KindSingle }
func (c *sceneCriterion) Buckets() []Bucket { return c.buckets }

func (c *sceneCriterion) Extract(s Shot) []int {
	if i, ok := c.index[s.SceneID]; ok {
		return []int{i}
	}
	return nil
}

// ByScene groups shots by their scene, in scene order.
func ByScene(e *Edit) Criterion {
	c := &sceneCriterion{index: make(map[string]int, len(e.Scenes))}
	for i, sc := range e.Scenes {
		c.buckets = append(c.buckets, Bucket{ID: sc.ID, Name: sc.Name})
		c.index[sc.ID] = i
	}
	return c
}

type propCriterion struct {
	def     PropDef
	buckets []Bucket
}

func (c *propCriterion) Key() string       { return c.def.ID }
func (c *propCriterion) Buckets() []Bucket { return c.buckets }

func (c *propCriterion) Kind() Kind {
	if c.def.Type == PropFlags {
		return KindFlag
	}
	return KindSingle
}

func (c *propCriterion) Extract(s Shot) []int {
	v := s.Tag(c.def.ID)
	if c.def.Type == PropEnum {
		if v >= 0 && v < len(c.buckets) {
			return []int{v}
		}
		return nil
	}
	var out []int
	for i := range c.buckets {
		if Has(v, i) {
			out = append(out, i)
		}
	}
	return out
}

// ByProp groups shots by an enum or flags tag, one group per item.
func ByProp(p PropDef) (Criterion, error) {
	if !p.Groupable() {
		return nil, errors.New(errors.ErrCodeUnsupported, "cannot group by %s tag %q", p.Type, p.Name)
	}
	c := &propCriterion{def: p}
	for i, it := range p.Items {
		c.buckets = append(c.buckets, Bucket{ID: p.ID + "." + strconv.Itoa(i), Name: it.Name})
	}
	return c, nil
}

// ResolveCriterion looks up a grouping criterion by key: "scene" or the ID or
// name of an enum or flags tag.
func ResolveCriterion(e *Edit, key string) (Criterion, error) {
	key = strings.TrimSpace(key)
	if key == "" || strings.EqualFold(key, SceneKey) || strings.EqualFold(key, "scenes") {
		return ByScene(e), nil
	}
	i := e.FindProp(key)
	if i < 0 {
		return nil, errors.New(errors.ErrCodeCriterionNotFound, "no tag %q to group by", key)
	}
	return ByProp(e.Props[i])
}

// PartitionOptions tunes Partition.
type PartitionOptions struct {
	// IncludeUnassigned appends a catch-all group for shots a single-valued
	// criterion leaves out. Flag criteria always get one.
	IncludeUnassigned bool
}

// Partition turns the edit's shots into layout groups. Every bucket gets a
// group, even an empty one, so headers stay stable while tagging. Under a
// flag criterion a shot appears once per set flag and shots with no flags go
// to a trailing Unassigned group.
func Partition(e *Edit, c Criterion, opts PartitionOptions) []layout.Group {
	buckets := c.Buckets()
	groups := make([]layout.Group, len(buckets))
	for i, b := range buckets {
		groups[i] = layout.Group{ID: b.ID, Name: b.Name}
	}
	withUnassigned := c.Kind() == KindFlag || opts.IncludeUnassigned
	var rest layout.Group
	if withUnassigned {
		rest = layout.Group{ID: UnassignedID, Name: UnassignedName}
	}

	for idx, s := range e.Shots {
		m := layout.Member{Shot: idx, Seconds: e.Seconds(s.Duration)}
		hits := c.Extract(s)
		if len(hits) == 0 {
			if withUnassigned {
				rest.Members = append(rest.Members, m)
			}
			continue
		}
		for _, g := range hits {
			groups[g].Members = append(groups[g].Members, m)
		}
	}
	if withUnassigned {
		groups = append(groups, rest)
	}
	return groups
}
