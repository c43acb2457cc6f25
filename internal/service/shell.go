package service

import (
	"net/url"
	"sort"
	"strings"
)

// Theme is the colour scheme of the console.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// NavLink is a single sidebar entry.
type NavLink struct {
	Label string
	Path  string
}

// NavSection groups links under a collapsible heading.
type NavSection struct {
	Label  string
	Prefix string
	Icon   string
	Links  []NavLink
}

// Navigation is the routing table rendered in the sidebar.
func Navigation() []NavSection {
	return []NavSection{
		{Label: "Dashboard", Prefix: "/", Icon: "home", Links: []NavLink{{Label: "Overview", Path: "/"}}},
		{Label: "Students", Prefix: "/students", Icon: "users", Links: []NavLink{
			{Label: "All Students", Path: "/students"},
			{Label: "Add Student", Path: "/students/new"},
		}},
		{Label: "Teachers", Prefix: "/teachers", Icon: "briefcase", Links: []NavLink{
			{Label: "All Teachers", Path: "/teachers"},
			{Label: "Add Teacher", Path: "/teachers/new"},
		}},
		{Label: "Classes", Prefix: "/classes", Icon: "layers", Links: []NavLink{
			{Label: "All Classes", Path: "/classes"},
			{Label: "Add Class", Path: "/classes/new"},
		}},
		{Label: "Fees", Prefix: "/fees", Icon: "wallet", Links: []NavLink{
			{Label: "Fee Types", Path: "/fees/types"},
			{Label: "Fee Vouchers", Path: "/fees/vouchers"},
		}},
		{Label: "Attendance", Prefix: "/attendance", Icon: "calendar", Links: []NavLink{
			{Label: "Attendance Records", Path: "/attendance"},
			{Label: "Mark Attendance", Path: "/attendance/mark"},
		}},
		{Label: "Activity", Prefix: "/activity", Icon: "clock", Links: []NavLink{{Label: "Activity Log", Path: "/activity"}}},
	}
}

// Shell is the navigation state of one request. It is rebuilt from the query
// string every time and never stored.
type Shell struct {
	Path        string
	SidebarOpen bool
	Theme       Theme
	Expanded    []string
}

// DefaultShell is the state of a fresh page load.
func DefaultShell(path string) Shell {
	return Shell{Path: normalizePath(path), SidebarOpen: true, Theme: ThemeLight}
}

// ParseShell reads theme, sidebar and open from a query string.
func ParseShell(path string, query url.Values) Shell {
	shell := DefaultShell(path)
	if Theme(query.Get("theme")) == ThemeDark {
		shell.Theme = ThemeDark
	}
	if query.Get("sidebar") == "closed" {
		shell.SidebarOpen = false
	}
	for _, raw := range query["open"] {
		for _, prefix := range strings.Split(raw, ",") {
			if strings.TrimSpace(prefix) == "" {
				continue
			}
			shell.Expanded = addPrefix(shell.Expanded, normalizePath(prefix))
		}
	}
	return shell
}

// ToggleSidebar opens a closed sidebar and closes an open one.
func (s Shell) ToggleSidebar() Shell {
	s.SidebarOpen = !s.SidebarOpen
	return s
}

// ToggleTheme switches between light and dark.
func (s Shell) ToggleTheme() Shell {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
	return s
}

// ToggleSection expands or collapses the section with the given prefix.
func (s Shell) ToggleSection(prefix string) Shell {
	prefix = normalizePath(prefix)
	for i, existing := range s.Expanded {
		if existing == prefix {
			s.Expanded = append(append([]string(nil), s.Expanded[:i]...), s.Expanded[i+1:]...)
			return s
		}
	}
	s.Expanded = addPrefix(append([]string(nil), s.Expanded...), prefix)
	return s
}

// IsActive reports whether link is the current page.
func (s Shell) IsActive(link string) bool {
	return s.Path == normalizePath(link)
}

// SectionOpen reports whether a section is expanded explicitly or contains the current page.
func (s Shell) SectionOpen(prefix string) bool {
	prefix = normalizePath(prefix)
	for _, existing := range s.Expanded {
		if existing == prefix {
			return true
		}
	}
	if prefix == "/" {
		return s.Path == "/"
	}
	return s.Path == prefix || strings.HasPrefix(s.Path, prefix+"/")
}

// IsDark is a template helper.
func (s Shell) IsDark() bool {
	return s.Theme == ThemeDark
}

// Query encodes the non-default parts of the state.
func (s Shell) Query() url.Values {
	query := url.Values{}
	if s.Theme == ThemeDark {
		query.Set("theme", string(ThemeDark))
	}
	if !s.SidebarOpen {
		query.Set("sidebar", "closed")
	}
	if len(s.Expanded) > 0 {
		query.Set("open", strings.Join(s.Expanded, ","))
	}
	return query
}

// Link builds a URL to path that carries the current state.
func (s Shell) Link(path string) string {
	query := s.Query()
	if len(query) == 0 {
		return path
	}
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + query.Encode()
}

// SidebarToggleURL links to the current page with the sidebar toggled.
func (s Shell) SidebarToggleURL() string {
	return s.ToggleSidebar().Link(s.Path)
}

// ThemeToggleURL links to the current page with the theme toggled.
func (s Shell) ThemeToggleURL() string {
	return s.ToggleTheme().Link(s.Path)
}

// SectionToggleURL links to the current page with one section toggled.
func (s Shell) SectionToggleURL(prefix string) string {
	return s.ToggleSection(prefix).Link(s.Path)
}

func addPrefix(list []string, prefix string) []string {
	for _, existing := range list {
		if existing == prefix {
			return list
		}
	}
	list = append(list, prefix)
	sort.Strings(list)
	return list
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
