// Package shot models an edit broken down into shots: the shot list, scenes,
// user-defined tags, and the grouping criteria that turn them into layout
// groups.
//
// # Tags
//
// Every [PropDef] is a tag all shots carry. Values are stored as ints:
//
//   - bool: 0 or 1
//   - int: a value in [Min, Max]
//   - enum: the index of the selected item
//   - flags: a bitmask, item i is bit 1<<i (see [Bit] and [Has])
//
// # Grouping
//
// [ResolveCriterion] maps a key ("scene", or the ID or name of an enum or
// flags tag) to a [Criterion]. [Partition] then produces one
// [layout.Group] per bucket. Enum and scene criteria place each shot at most
// once; flag criteria place a shot once for every flag it has set and collect
// untagged shots in a trailing "Unassigned" group.
//
//	c, err := shot.ResolveCriterion(edit, "scene")
//	if err != nil {
//	    return err
//	}
//	groups := shot.Partition(edit, c, shot.PartitionOptions{IncludeUnassigned: true})
//
// # Schema edits
//
// Tag definitions and scenes are edited through methods on [Edit] such as
// [Edit.AddProp], [Edit.ConfigureProp], [Edit.AddScene] and
// [Edit.AssignScene]. New names are made unique Blender-style with a numeric
// suffix (see [UniqueName]).
package shot
