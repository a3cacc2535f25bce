package frontmatter

import "strings"

// Well-known keys.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyDraft       = "draft"
	KeySidebar     = "sidebar"
	KeyOrder       = "order"
	KeyLabel       = "label"
	KeyHidden      = "hidden"
)

// Fields is a parsed frontmatter block.
type Fields map[string]any

// String returns a trimmed string value.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Bool returns a boolean value, false when absent or not a bool.
func (f Fields) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

// Title returns the document title.
func (f Fields) Title() (string, bool) {
	return f.String(KeyTitle)
}

// Draft reports whether the document is a draft.
func (f Fields) Draft() bool {
	return f.Bool(KeyDraft)
}

func (f Fields) sidebar() Fields {
	switch m := f[KeySidebar].(type) {
	case map[string]any:
		return Fields(m)
	case Fields:
		return m
	}
	return nil
}

// SidebarOrder returns sidebar.order.
func (f Fields) SidebarOrder() (int, bool) {
	switch v := f.sidebar()[KeyOrder].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// SidebarLabel returns sidebar.label.
func (f Fields) SidebarLabel() (string, bool) {
	return f.sidebar().String(KeyLabel)
}

// SidebarHidden reports sidebar.hidden.
func (f Fields) SidebarHidden() bool {
	return f.sidebar().Bool(KeyHidden)
}
