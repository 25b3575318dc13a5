// Package normalize maps raw provider records into the canonical model in
// pkg/models. Every function here is pure: it never panics on missing
// fields, never performs I/O, and substitutes the documented default for
// anything a provider leaves out.
package normalize

import "fmt"

// Source identifies the provider shape a raw record came from.
type Source string

const (
	SourceREST    Source = "rest"
	SourceGraphQL Source = "graphql"
)

// Issue is a data-quality problem found while normalizing. Issues are
// warnings: the affected field still receives a well-defined value.
type Issue struct {
	Source  Source
	Field   string
	Value   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s=%q: %s", i.Source, i.Field, i.Value, i.Message)
}

// Report collects issues across one normalization call. A nil *Report
// discards issues.
type Report struct {
	Issues []Issue
}

func (r *Report) add(src Source, field, value, msg string) {
	if r == nil {
		return
	}
	r.Issues = append(r.Issues, Issue{Source: src, Field: field, Value: value, Message: msg})
}

// Empty reports whether no issues were recorded.
func (r *Report) Empty() bool {
	return r == nil || len(r.Issues) == 0
}
