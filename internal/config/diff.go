// SPDX-License-Identifier: MIT

package config

import (
	"reflect"
	"sort"
)

// ChangeSummary describes the result of comparing two AppConfigs.
type ChangeSummary struct {
	ChangedFields   []string // List of field paths that changed
	RestartRequired bool     // True if any changed field is NOT HotReloadable
}

// Diff compares two configurations and returns a summary of changes.
// Fields are reported by their internal field paths (e.g. "Train.Epochs").
func Diff(old, next AppConfig) (ChangeSummary, error) {
	registry, err := GetRegistry()
	if err != nil {
		return ChangeSummary{}, err
	}

	summary := ChangeSummary{}
	summary.compareStruct("", reflect.ValueOf(old), reflect.ValueOf(next), registry)
	sort.Strings(summary.ChangedFields)

	return summary, nil
}

func (s *ChangeSummary) compareStruct(prefix string, oldVal, nextVal reflect.Value, r *Registry) {
	t := oldVal.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		fieldPath := f.Name
		if prefix != "" {
			fieldPath = prefix + "." + f.Name
		}

		ov := oldVal.Field(i)
		nv := nextVal.Field(i)

		// Handle pointers (plan start epochs)
		if ov.Kind() == reflect.Ptr {
			if ov.IsNil() && nv.IsNil() {
				continue
			}
			if ov.IsNil() != nv.IsNil() {
				s.recordChange(fieldPath, r)
				continue
			}
			ov = ov.Elem()
			nv = nv.Elem()
		}

		if ov.Kind() == reflect.Struct && !isLeafStruct(ov.Type()) {
			s.compareStruct(fieldPath, ov, nv, r)
			continue
		}

		if !reflect.DeepEqual(ov.Interface(), nv.Interface()) {
			s.recordChange(fieldPath, r)
		}
	}
}

// isLeafStruct reports whether a struct type is compared as a single value
// instead of being walked field by field.
func isLeafStruct(t reflect.Type) bool {
	return t == reflect.TypeOf(LossWeight{})
}

func (s *ChangeSummary) recordChange(fieldPath string, r *Registry) {
	s.ChangedFields = append(s.ChangedFields, fieldPath)

	entry, ok := r.ByField[fieldPath]
	if !ok || !entry.HotReloadable {
		s.RestartRequired = true
	}
}
