// Package content scans the documentation content tree and resolves the
// sidebar against it: slugs are matched to files and autogenerate
// directives are expanded into concrete entries.
package content
