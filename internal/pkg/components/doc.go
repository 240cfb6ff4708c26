// Package components holds the templ fragments swapped in by htmx. Edit the
// .templ sources and run templ generate.
package components
