// Package compliance defines the conformance-checking contract every
// validator profile (PDF/A levels, PDF/UA-1) implements. Grounded on
// compliance/compliance.go's Validator/Report/Violation shape, adapted from
// a single post-hoc "walk the finished document" check to a gate consulted
// incrementally as the engine registers each potential violation — sealpdf
// never holds a complete parsed document to walk, only the stream of
// objects it is actively producing.
package compliance

// Violation is one compliance problem found while serializing.
type Violation struct {
	Code        string
	Description string
	Location    string
}

// Report is the final compliance summary returned alongside a document's
// serialized bytes.
type Report struct {
	Compliant  bool
	Standard   string
	Violations []Violation
}

// Validator gates which violation codes are meaningful under a given
// conformance profile; a code a validator doesn't recognize is not
// recorded; Gates(code) lets the active validator fine-tune without engine
// needing to know the full code catalogue for every profile.
type Validator interface {
	Standard() string
	Gates(code string) bool
}

// BuildReport assembles a Report from the violations the engine collected
// over this validator's lifetime.
func BuildReport(v Validator, violations []Violation) *Report {
	return &Report{
		Compliant:  len(violations) == 0,
		Standard:   v.Standard(),
		Violations: violations,
	}
}
