package site

// Default integration, adapter and plugin names.
const (
	DefaultIntegration = "starlight"
	DefaultAdapter     = "cloudflare"
	DefaultPlugin      = "tailwindcss"
)

// Default returns the Unfold.js documentation site record.
func Default() Site {
	return Site{
		Metadata: Metadata{
			Title:       "Unfold.js",
			Description: "A modern library for beautiful page-turn animations",
			Social: []SocialLink{
				{Icon: "github", Label: "GitHub", Href: "https://github.com/jhlabs/unfold"},
			},
		},
		Integration: DefaultIntegration,
		Sidebar: []NavGroup{
			{
				Label: "Getting Started",
				Items: []NavItem{
					{Label: "Introduction", Slug: "getting-started/introduction"},
					{Label: "Installation", Slug: "getting-started/installation"},
					{Label: "Quick Start", Slug: "getting-started/quick-start"},
				},
			},
			{
				Label: "Examples",
				Items: []NavItem{
					{Label: "Basic Book", Slug: "examples/basic-book"},
					{Label: "Magazine Layout", Slug: "examples/magazine"},
					{Label: "Interactive Demo", Slug: "examples/interactive"},
				},
			},
			{
				Label:        "API Reference",
				Autogenerate: &Autogenerate{Directory: "api"},
			},
			{
				Label: "Guides",
				Items: []NavItem{
					{Label: "Styling", Slug: "guides/styling"},
					{Label: "Events", Slug: "guides/events"},
					{Label: "Responsive Design", Slug: "guides/responsive"},
				},
			},
		},
		CustomCSS: []string{"./src/styles/global.css"},
		Adapter: Adapter{
			Name:          DefaultAdapter,
			PlatformProxy: PlatformProxy{Enabled: true},
		},
		Plugins: []string{DefaultPlugin},
	}
}
