package shot

import (
	"github.com/matzehuels/shotgrid/pkg/errors"
)

// DefaultAspect is the thumbnail aspect ratio assumed when an edit does not
// record one.
const DefaultAspect = 16.0 / 9.0

// DefaultFPS is used when an edit has no frame rate.
const DefaultFPS = 24.0

// Edit is a cut sequence broken down into shots, together with the scenes
// and tag definitions the shots are annotated with.
type Edit struct {
	ID         string  `json:"id" yaml:"id" bson:"_id"`
	Name       string  `json:"name" yaml:"name" bson:"name"`
	FPS        float64 `json:"fps" yaml:"fps" bson:"fps"`
	FrameStart int     `json:"frame_start" yaml:"frame_start" bson:"frame_start"`
	FrameEnd   int     `json:"frame_end" yaml:"frame_end" bson:"frame_end"`

	// Aspect is the width/height ratio shared by every thumbnail.
	Aspect float64 `json:"aspect,omitempty" yaml:"aspect,omitempty" bson:"aspect,omitempty"`

	Scenes []Scene   `json:"scenes,omitempty" yaml:"scenes,omitempty" bson:"scenes,omitempty"`
	Props  []PropDef `json:"props,omitempty" yaml:"props,omitempty" bson:"props,omitempty"`
	Shots  []Shot    `json:"shots" yaml:"shots" bson:"shots"`
}

// Shot is one cut of the edit. The shot list is kept sorted by FrameStart.
type Shot struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty" bson:"id,omitempty"`
	Name       string `json:"name" yaml:"name" bson:"name"`
	FrameStart int    `json:"frame_start" yaml:"frame_start" bson:"frame_start"`

	// Duration is the length in frames. It is derived from the next shot's
	// start by SyncDurations.
	Duration int `json:"duration" yaml:"duration" bson:"duration"`

	SceneID   string `json:"scene,omitempty" yaml:"scene,omitempty" bson:"scene,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty" bson:"thumbnail,omitempty"`

	// Tags maps a PropDef ID to its value. Missing keys read as zero.
	Tags map[string]int `json:"tags,omitempty" yaml:"tags,omitempty" bson:"tags,omitempty"`
}

// Tag returns the value of a tag, zero when unset.
func (s Shot) Tag(propID string) int { return s.Tags[propID] }

// Scene groups consecutive or scattered shots under a name.
type Scene struct {
	ID    string `json:"id" yaml:"id" bson:"id"`
	Name  string `json:"name" yaml:"name" bson:"name"`
	Color Color  `json:"color" yaml:"color" bson:"color"`
}

// AspectRatio returns the edit's thumbnail aspect ratio, or DefaultAspect.
func (e *Edit) AspectRatio() float64 {
	if e.Aspect > 0 {
		return e.Aspect
	}
	return DefaultAspect
}

// Rate returns the edit's frame rate, or DefaultFPS.
func (e *Edit) Rate() float64 {
	if e.FPS > 0 {
		return e.FPS
	}
	return DefaultFPS
}

// Seconds converts a frame count to seconds at the edit's frame rate.
func (e *Edit) Seconds(frames int) float64 {
	return float64(frames) / e.Rate()
}

// TotalFrames returns the length of the edit's frame range.
func (e *Edit) TotalFrames() int {
	return e.FrameEnd - e.FrameStart
}

// SyncDurations recomputes every shot's duration from the start of the shot
// that follows it; the last shot runs to FrameEnd. It reports false when the
// summed durations disagree with the edit's frame range, which means the
// range does not match the cut and reported durations will be off.
func (e *Edit) SyncDurations() bool {
	if len(e.Shots) == 0 {
		return e.TotalFrames() == 0
	}
	last := max(e.FrameEnd, e.Shots[len(e.Shots)-1].FrameStart)
	total := 0
	for i := len(e.Shots) - 1; i >= 0; i-- {
		e.Shots[i].Duration = last - e.Shots[i].FrameStart
		last = e.Shots[i].FrameStart
		total += e.Shots[i].Duration
	}
	return total == e.TotalFrames()
}

// ShotAtFrame returns the index of the shot that contains frame, or -1 when
// frame is before the first shot.
func (e *Edit) ShotAtFrame(frame int) int {
	idx := -1
	for i, s := range e.Shots {
		if s.FrameStart > frame {
			break
		}
		idx = i
	}
	return idx
}

// FindShot returns the index of the shot with the given ID or name.
func (e *Edit) FindShot(key string) int {
	for i, s := range e.Shots {
		if s.ID == key || s.Name == key {
			return i
		}
	}
	return -1
}

// FindScene returns the index of the scene with the given ID or name.
func (e *Edit) FindScene(key string) int {
	for i, s := range e.Scenes {
		if s.ID == key || s.Name == key {
			return i
		}
	}
	return -1
}

// FindProp returns the index of the tag definition with the given ID or name.
func (e *Edit) FindProp(key string) int {
	for i, p := range e.Props {
		if p.ID == key || p.Name == key {
			return i
		}
	}
	return -1
}

// Validate checks the edit for structural problems: a bad ID, unsorted
// shots, negative durations, references to unknown scenes or tag
// definitions, and tag values outside their definition's range.
func (e *Edit) Validate() error {
	if err := errors.ValidateEditID(e.ID); err != nil {
		return err
	}
	if e.FPS < 0 {
		return errors.New(errors.ErrCodeInvalidEdit, "negative frame rate %v", e.FPS)
	}
	if e.Aspect < 0 {
		return errors.New(errors.ErrCodeInvalidEdit, "negative aspect ratio %v", e.Aspect)
	}

	scenes := make(map[string]bool, len(e.Scenes))
	for _, sc := range e.Scenes {
		if sc.ID == "" {
			return errors.New(errors.ErrCodeInvalidEdit, "scene %q has no id", sc.Name)
		}
		if scenes[sc.ID] {
			return errors.New(errors.ErrCodeInvalidEdit, "duplicate scene id %q", sc.ID)
		}
		scenes[sc.ID] = true
	}

	props := make(map[string]*PropDef, len(e.Props))
	for i := range e.Props {
		p := &e.Props[i]
		if err := p.validate(); err != nil {
			return err
		}
		if props[p.ID] != nil {
			return errors.New(errors.ErrCodeInvalidEdit, "duplicate tag id %q", p.ID)
		}
		props[p.ID] = p
	}

	for i, s := range e.Shots {
		if i > 0 && s.FrameStart < e.Shots[i-1].FrameStart {
			return errors.New(errors.ErrCodeInvalidEdit, "shot %q starts before the previous shot", s.Name)
		}
		if s.Duration < 0 {
			return errors.New(errors.ErrCodeInvalidEdit, "shot %q has negative duration", s.Name)
		}
		if s.SceneID != "" && !scenes[s.SceneID] {
			return errors.New(errors.ErrCodeInvalidEdit, "shot %q references unknown scene %q", s.Name, s.SceneID)
		}
		for id, v := range s.Tags {
			p := props[id]
			if p == nil {
				return errors.New(errors.ErrCodeInvalidEdit, "shot %q has value for unknown tag %q", s.Name, id)
			}
			if err := p.Check(v); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidEdit, err, "shot %q", s.Name)
			}
		}
	}
	return nil
}
