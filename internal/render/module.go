package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhlabs/unfold/docsite/internal/site"
)

const moduleHeader = "// @ts-check\n// Generated by docsite. Edit docsite.yaml and re-run `docsite render`.\n"

// Module renders s as an astro.config.mjs ES module. Every integration,
// adapter and plugin must be registered; imports are emitted sorted by
// specifier after the framework's defineConfig import.
func Module(s site.Site) ([]byte, error) {
	rec := s.Record()

	imports := map[string]string{}
	need := func(kind site.PackageKind, name string) error {
		pkg, ok := site.Lookup(kind, name)
		if !ok {
			return fmt.Errorf("no %s registered as %q", kind, name)
		}
		imports[pkg.Import] = pkg.Name
		return nil
	}

	integrations := make(jsArray, 0, len(rec.Integrations))
	for _, in := range rec.Integrations {
		if err := need(site.KindIntegration, in.Name); err != nil {
			return nil, err
		}
		integrations = append(integrations, jsCall{callee: in.Name, args: []jsValue{themeOptions(in.Options)}})
	}

	if err := need(site.KindAdapter, rec.Adapter.Name); err != nil {
		return nil, err
	}
	adapterOpts := jsObject{}
	if p := rec.Adapter.Options.PlatformProxy; p != nil {
		adapterOpts = append(adapterOpts, jsField{"platformProxy", jsObject{{"enabled", jsBool(p.Enabled)}}})
	}
	adapter := jsCall{callee: rec.Adapter.Name, args: []jsValue{adapterOpts}}

	plugins := make(jsArray, 0, len(rec.Vite.Plugins))
	for _, p := range rec.Vite.Plugins {
		if err := need(site.KindPlugin, p.Name); err != nil {
			return nil, err
		}
		plugins = append(plugins, jsCall{callee: p.Name})
	}

	config := jsObject{
		{"integrations", integrations},
		{"adapter", adapter},
		{"vite", jsObject{{"plugins", plugins}}},
	}

	var b strings.Builder
	b.WriteString(moduleHeader)
	b.WriteString("import { defineConfig } from 'astro/config';\n")
	specs := make([]string, 0, len(imports))
	for spec := range imports {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	for _, spec := range specs {
		fmt.Fprintf(&b, "import %s from %s;\n", imports[spec], quoteJS(spec))
	}
	b.WriteString("\n// https://astro.build/config\nexport default defineConfig(")
	config.write(&b, 0)
	b.WriteString(");\n")
	return []byte(b.String()), nil
}

func themeOptions(o site.ThemeOptions) jsObject {
	social := make(jsArray, 0, len(o.Social))
	for _, l := range o.Social {
		social = append(social, jsObject{
			{"icon", jsString(l.Icon)},
			{"label", jsString(l.Label)},
			{"href", jsString(l.Href)},
		})
	}

	sidebar := make(jsArray, 0, len(o.Sidebar))
	for _, g := range o.Sidebar {
		group := jsObject{{"label", jsString(g.Label)}}
		if len(g.Items) > 0 {
			items := make(jsArray, 0, len(g.Items))
			for _, it := range g.Items {
				items = append(items, jsObject{{"label", jsString(it.Label)}, {"slug", jsString(it.Slug)}})
			}
			group = append(group, jsField{"items", items})
		}
		if g.Autogenerate != nil {
			group = append(group, jsField{"autogenerate", jsObject{{"directory", jsString(g.Autogenerate.Directory)}}})
		}
		sidebar = append(sidebar, group)
	}

	css := make(jsArray, 0, len(o.CustomCSS))
	for _, p := range o.CustomCSS {
		css = append(css, jsString(p))
	}

	return jsObject{
		{"title", jsString(o.Title)},
		{"description", jsString(o.Description)},
		{"social", social},
		{"sidebar", sidebar},
		{"customCss", css},
	}
}
