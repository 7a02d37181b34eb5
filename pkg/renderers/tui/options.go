package tui

// OutputFormat controls how collected responses are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the answers as a JSON object keyed by element id.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a markdown table of element ids and answers.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds the prefixes printed before informational lines and notices.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithStdio points the default survey driver at other streams.
func WithStdio(stdio Stdio) Option {
	return func(r *Renderer) {
		r.driver = NewSurveyDriver(stdio)
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithStopOnSubmit ends the prompt walk after the first confirmed button.
// Remaining elements are left unanswered.
func WithStopOnSubmit(stop bool) Option {
	return func(r *Renderer) {
		r.stopOnSubmit = stop
	}
}
