package site

import "sort"

// PackageKind distinguishes the three framework extension points.
type PackageKind string

const (
	KindIntegration PackageKind = "integration"
	KindAdapter     PackageKind = "adapter"
	KindPlugin      PackageKind = "plugin"
)

// Package describes an npm package the generated module imports.
type Package struct {
	Name   string // identifier used in the config and as the JS binding
	Import string // npm import specifier
	Kind   PackageKind
	// ProxyAware adapters accept the platformProxy option.
	ProxyAware bool
}

var registry = map[PackageKind]map[string]Package{
	KindIntegration: {
		"starlight": {Name: "starlight", Import: "@astrojs/starlight", Kind: KindIntegration},
	},
	KindAdapter: {
		"cloudflare": {Name: "cloudflare", Import: "@astrojs/cloudflare", Kind: KindAdapter, ProxyAware: true},
		"netlify":    {Name: "netlify", Import: "@astrojs/netlify", Kind: KindAdapter},
		"node":       {Name: "node", Import: "@astrojs/node", Kind: KindAdapter},
		"vercel":     {Name: "vercel", Import: "@astrojs/vercel", Kind: KindAdapter},
	},
	KindPlugin: {
		"tailwindcss": {Name: "tailwindcss", Import: "@tailwindcss/vite", Kind: KindPlugin},
	},
}

// Lookup returns the registered package for name.
func Lookup(kind PackageKind, name string) (Package, bool) {
	p, ok := registry[kind][name]
	return p, ok
}

// Names lists registered package names of a kind in sorted order.
func Names(kind PackageKind) []string {
	names := make([]string, 0, len(registry[kind]))
	for n := range registry[kind] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
