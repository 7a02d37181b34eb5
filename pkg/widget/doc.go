// Package widget defines the typed widget specification consumed by the
// interpreter. A Spec is produced from untrusted JSON (or YAML) by Decode,
// which applies field-level defaults instead of failing: a missing placeholder
// becomes "", a missing style becomes an empty map and missing options become
// an empty slice. Unknown element types are preserved verbatim so the
// interpreter can render an inert placeholder for them. Structural problems
// that would corrupt response binding, such as duplicate element ids, are
// reported by Spec.Validate.
package widget
