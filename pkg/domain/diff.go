package domain

import (
	"reflect"
)

// Field names one cached field of the store.
type Field string

const (
	FieldCurrentNovel   Field = "current_novel"
	FieldChapters       Field = "chapters"
	FieldCharacters     Field = "characters"
	FieldLores          Field = "lores"
	FieldCurrentChapter Field = "current_chapter"
	FieldCurrentScene   Field = "current_scene"
	FieldScenes         Field = "scenes"
)

// Change describes one cache mutation.
// It is designed to be serialized to JSON for observers outside the process.
type Change struct {
	// Fields lists the cache fields whose value differs, in declaration order.
	Fields []Field `json:"fields"`

	// Snapshot is a copy of the whole cache after the mutation.
	Snapshot Snapshot `json:"snapshot"`
}

// Has reports whether the change touched the given field.
func (c Change) Has(f Field) bool {
	for _, field := range c.Fields {
		if field == f {
			return true
		}
	}
	return false
}

// Diff calculates which fields differ between oldState and newState.
// If oldState is nil, every non-empty field of newState is reported (initial load).
// Returns nil when nothing changed.
func Diff(oldState, newState *Snapshot) *Change {
	if newState == nil {
		return nil
	}
	if oldState == nil {
		oldState = &Snapshot{}
	}

	var fields []Field
	check := func(f Field, a, b any) {
		if !equalField(a, b) {
			fields = append(fields, f)
		}
	}

	check(FieldCurrentNovel, oldState.CurrentNovel, newState.CurrentNovel)
	check(FieldChapters, oldState.Chapters, newState.Chapters)
	check(FieldCharacters, oldState.Characters, newState.Characters)
	check(FieldLores, oldState.Lores, newState.Lores)
	check(FieldCurrentChapter, oldState.CurrentChapter, newState.CurrentChapter)
	check(FieldCurrentScene, oldState.CurrentScene, newState.CurrentScene)
	check(FieldScenes, oldState.Scenes, newState.Scenes)

	if len(fields) == 0 {
		return nil
	}
	return &Change{Fields: fields, Snapshot: *newState}
}

// equalField treats nil and empty collections as equal, so a reset of an
// already empty cache is not reported as a change.
func equalField(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Slice && vb.Kind() == reflect.Slice && va.Len() == 0 && vb.Len() == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
