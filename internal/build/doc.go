// Package build runs the docsite render pipeline: validate the site record,
// scan and lint the content tree, skip when nothing changed, write the
// framework config, then record history, publish an event and report
// metrics. The CLI and the watcher both route through Generator.
package build
