// Package site models the documentation site configuration record: site
// metadata, sidebar navigation, stylesheet hooks, the deployment adapter and
// the build-tool plugin list.
//
// A Site is constructed once per invocation and treated as read-only. Its
// Record method produces the framework-initialization arguments
// ({integrations, adapter, vite}) consumed by the documentation framework.
package site
