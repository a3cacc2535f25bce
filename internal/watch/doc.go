// Package watch keeps the rendered framework config in sync with its
// inputs. It watches the config file, the content tree and the custom
// stylesheets with fsnotify, debounces bursts of events into one render,
// re-lints on a gocron schedule and optionally serves Prometheus metrics.
package watch
