// Package interpreter turns a widget.Spec plus the current responses.Store into
// a Tree of interactive controls. Interpret is pure: it reads the store but
// never writes it, so rendering the same spec and store twice yields equal
// trees. Behaviour is carried as data: every interactive Node holds a Binding
// and Tree.Dispatch applies user events (value changes and button activation)
// to the store. Output renderers in pkg/renderers consume the Tree.
package interpreter
