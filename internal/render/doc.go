// Package render serializes the framework-initialization record.
//
// Three formats are supported: canonical JSON, YAML, and an ES module
// (astro.config.mjs) the documentation framework loads directly. All
// renderers are deterministic: the same Site always yields the same bytes.
package render
