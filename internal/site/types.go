package site

// Metadata carries the site title, description and social links.
type Metadata struct {
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description,omitempty" json:"description"`
	Social      []SocialLink `yaml:"social,omitempty" json:"social"`
}

// SocialLink is a header icon link.
type SocialLink struct {
	Icon  string `yaml:"icon" json:"icon"`
	Label string `yaml:"label" json:"label"`
	Href  string `yaml:"href" json:"href"`
}

// NavItem is a sidebar leaf pointing at a content document.
type NavItem struct {
	Label string `yaml:"label" json:"label"`
	Slug  string `yaml:"slug" json:"slug"`
}

// Autogenerate instructs the framework to derive a group's entries from a
// content directory.
type Autogenerate struct {
	Directory string `yaml:"directory" json:"directory"`
}

// NavGroup is a labelled sidebar group. Exactly one of Items or
// Autogenerate is set on a well-formed group.
type NavGroup struct {
	Label        string        `yaml:"label" json:"label"`
	Items        []NavItem     `yaml:"items,omitempty" json:"items,omitempty"`
	Autogenerate *Autogenerate `yaml:"autogenerate,omitempty" json:"autogenerate,omitempty"`
}

// GroupKind classifies a NavGroup.
type GroupKind string

const (
	GroupItems        GroupKind = "items"
	GroupAutogenerate GroupKind = "autogenerate"
	GroupInvalid      GroupKind = "invalid"
)

// Kind reports whether the group is slug-item based or autogenerate based.
// Groups with both or neither are GroupInvalid.
func (g NavGroup) Kind() GroupKind {
	hasItems := len(g.Items) > 0
	hasAuto := g.Autogenerate != nil
	switch {
	case hasItems && !hasAuto:
		return GroupItems
	case hasAuto && !hasItems:
		return GroupAutogenerate
	default:
		return GroupInvalid
	}
}

// PlatformProxy toggles the adapter's local platform emulation.
type PlatformProxy struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Adapter names the deployment target and its options.
type Adapter struct {
	Name          string        `yaml:"name"`
	PlatformProxy PlatformProxy `yaml:"platform_proxy"`
}

// Site is the complete configuration record.
type Site struct {
	Metadata    `yaml:",inline"`
	Integration string     `yaml:"integration,omitempty"`
	Sidebar     []NavGroup `yaml:"sidebar"`
	CustomCSS   []string   `yaml:"custom_css,omitempty"`
	Adapter     Adapter    `yaml:"adapter"`
	Plugins     []string   `yaml:"plugins,omitempty"`
}

// Slugs returns every explicit slug in sidebar order, duplicates included.
func (s Site) Slugs() []string {
	var out []string
	for _, g := range s.Sidebar {
		for _, it := range g.Items {
			out = append(out, it.Slug)
		}
	}
	return out
}
