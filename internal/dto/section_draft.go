package dto

import "strings"

// SectionDraft is the in-memory section list of a class form. Removing a
// section that already exists on the server queues it for deletion.
type SectionDraft struct {
	Sections []string
	ToDelete []string
	original map[string]struct{}
}

// NewSectionDraft starts a draft from the sections currently stored.
func NewSectionDraft(existing []string) *SectionDraft {
	draft := &SectionDraft{original: make(map[string]struct{}, len(existing))}
	for _, name := range existing {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		draft.Sections = append(draft.Sections, name)
		draft.original[name] = struct{}{}
	}
	return draft
}

// Add appends a section. Blank and duplicate names are ignored.
func (d *SectionDraft) Add(name string) {
	name = strings.TrimSpace(name)
	if name == "" || d.contains(name) {
		return
	}
	d.Sections = append(d.Sections, name)
	d.ToDelete = remove(d.ToDelete, name)
}

// Remove drops the section at index i.
func (d *SectionDraft) Remove(i int) {
	if i < 0 || i >= len(d.Sections) {
		return
	}
	name := d.Sections[i]
	d.Sections = append(d.Sections[:i:i], d.Sections[i+1:]...)
	if _, stored := d.original[name]; stored {
		d.ToDelete = append(d.ToDelete, name)
	}
}

// Replace reconciles the draft with a full list submitted by a form.
func (d *SectionDraft) Replace(submitted []string) {
	keep := make(map[string]struct{}, len(submitted))
	for _, name := range submitted {
		keep[strings.TrimSpace(name)] = struct{}{}
	}
	for i := len(d.Sections) - 1; i >= 0; i-- {
		if _, ok := keep[d.Sections[i]]; !ok {
			d.Remove(i)
		}
	}
	for _, name := range submitted {
		d.Add(name)
	}
}

// Apply writes the draft into the class payload.
func (d *SectionDraft) Apply(form *ClassForm) {
	form.Sections = append([]string(nil), d.Sections...)
	form.SectionsToDelete = append([]string(nil), d.ToDelete...)
}

func (d *SectionDraft) contains(name string) bool {
	for _, existing := range d.Sections {
		if existing == name {
			return true
		}
	}
	return false
}

func remove(list []string, name string) []string {
	out := list[:0]
	for _, item := range list {
		if item != name {
			out = append(out, item)
		}
	}
	return out
}
