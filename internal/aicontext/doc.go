// Package aicontext validates .ai-context.yml metadata files.
//
// A document must name the project (name, summary, role), carry non-empty
// do/dont guidance lists, and contain no placeholder text. Unusable inputs
// (missing files, YAML errors, non-mapping documents) abort validation with
// ErrUnusable; content violations are collected as Problems.
package aicontext
