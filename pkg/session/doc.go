// Package session drives one widget through its life: generation from a
// prompt, user interaction with its controls, and conversational edits that
// replace the specification while keeping answers for elements that survive.
//
// A Controller is safe for concurrent use. The round trip to the generation
// service runs without holding the controller lock, so control events keep
// updating the response store while an edit is pending. Only a second edit is
// rejected until the first resolves.
package session
