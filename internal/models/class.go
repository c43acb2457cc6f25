package models

import "strings"

// Section is a subdivision of a class.
type Section struct {
	ID          ID     `json:"id"`
	SectionName string `json:"section_name"`
}

// Class groups students by grade and carries its sections.
type Class struct {
	ID        ID        `json:"id"`
	ClassName string    `json:"class_name"`
	Sections  []Section `json:"sections"`
}

// SectionNames returns the names of the class sections in order.
func (c Class) SectionNames() []string {
	names := make([]string, 0, len(c.Sections))
	for _, section := range c.Sections {
		names = append(names, section.SectionName)
	}
	return names
}

// SectionList renders the section names as a comma separated list.
func (c Class) SectionList() string {
	return strings.Join(c.SectionNames(), ", ")
}
