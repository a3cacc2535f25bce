package site

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
)

func TestValidate_DefaultIsValid(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestCheck_Slugs(t *testing.T) {
	cases := map[string]bool{
		"getting-started/introduction": true,
		"api/v2":                       true,
		"Guides/styling":               false,
		"guides":                       false,
		"guides/styling/deep":          false,
		"guides/sty ling":              false,
		"/guides/styling":              false,
		"":                             false,
	}
	for slug, ok := range cases {
		s := Default()
		s.Sidebar[0].Items[0].Slug = slug
		problems := Check(s)
		if ok {
			assert.Empty(t, problems, slug)
		} else {
			require.Len(t, problems, 1, slug)
			assert.Equal(t, "sidebar[0].items[0]", problems[0].Field)
		}
	}
}

func TestCheck_LeafLabelRequired(t *testing.T) {
	s := Default()
	s.Sidebar[3].Items[1].Label = "  "

	problems := Check(s)
	require.Len(t, problems, 1)
	assert.Equal(t, "sidebar[3].items[1]", problems[0].Field)
	assert.Equal(t, "label is required", problems[0].Message)
}

func TestCheck_GroupShape(t *testing.T) {
	s := Default()
	s.Sidebar[0].Autogenerate = &Autogenerate{Directory: "getting-started"}
	s.Sidebar[1].Items = nil

	problems := Check(s)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0].Message, "both items and autogenerate")
	assert.Contains(t, problems[1].Message, "needs items or autogenerate")
}

func TestCheck_AutogenerateDirectory(t *testing.T) {
	for _, dir := range []string{"", "/api", "../api", "api/../../x", ".", "./", "api/.."} {
		s := Default()
		s.Sidebar[2].Autogenerate.Directory = dir
		problems := Check(s)
		require.Len(t, problems, 1, dir)
		assert.Equal(t, "sidebar[2].autogenerate.directory", problems[0].Field)
	}
	s := Default()
	s.Sidebar[2].Autogenerate.Directory = "reference/api"
	assert.Empty(t, Check(s))
}

func TestCheck_Stylesheets(t *testing.T) {
	good := []string{"./src/styles/global.css", "styles/theme.scss", "./a.PCSS"}
	bad := []string{"", "/abs/global.css", "https://cdn.example.com/x.css", "./src/styles/global.js", "./README"}

	for _, p := range good {
		s := Default()
		s.CustomCSS = []string{p}
		assert.Empty(t, Check(s), p)
	}
	for _, p := range bad {
		s := Default()
		s.CustomCSS = []string{p}
		problems := Check(s)
		require.Len(t, problems, 1, p)
		assert.Equal(t, "custom_css[0]", problems[0].Field)
	}
}

func TestCheck_Social(t *testing.T) {
	s := Default()
	s.Social = append(s.Social,
		SocialLink{Icon: "", Label: "Mastodon", Href: "https://mastodon.social/@unfold"},
		SocialLink{Icon: "x", Label: "X", Href: "x.com/unfold"},
		SocialLink{Icon: "discord", Label: "Discord", Href: "https://bücher.example/invite"},
	)

	problems := Check(s)
	require.Len(t, problems, 2)
	assert.Equal(t, "social[1]", problems[0].Field)
	assert.Equal(t, "social[2]", problems[1].Field)
}

func TestCheck_Packages(t *testing.T) {
	s := Default()
	s.Integration = "docusaurus"
	s.Adapter.Name = "heroku"
	s.Plugins = []string{"tailwindcss", "tailwindcss", "sass"}

	var fields []string
	for _, p := range Check(s) {
		fields = append(fields, p.Field)
	}
	assert.Equal(t, []string{"integration", "adapter.name", "plugins[1]", "plugins[2]"}, fields)

	s = Default()
	s.Adapter = Adapter{Name: "vercel", PlatformProxy: PlatformProxy{Enabled: true}}
	problems := Check(s)
	require.Len(t, problems, 1)
	assert.Equal(t, "adapter.platform_proxy", problems[0].Field)
}

func TestValidate_ClassifiedWithProblems(t *testing.T) {
	s := Default()
	s.Title = ""
	s.CustomCSS = []string{"global.txt"}

	err := Validate(s)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	raw, ok := classified.Context().Get("problems")
	require.True(t, ok)
	lines := raw.([]string)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "title: "))
	assert.True(t, strings.HasPrefix(lines[1], "custom_css[0]: "))
}
