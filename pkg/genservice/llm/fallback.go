package llm

import "github.com/goliatone/go-widgetgen/pkg/widget"

// FallbackWidget is served when generation fails and fallback is enabled.
func FallbackWidget() widget.Spec {
	return widget.Spec{
		WidgetType:  "custom",
		Title:       "Generated Widget",
		Description: "A widget based on your request",
		Elements: []widget.Element{
			{
				ID:    "title",
				Type:  widget.ElementText,
				Label: "Your Widget",
				Style: widget.Style{"fontSize": "24px", "fontWeight": "bold"},
			},
			{
				ID:          "input1",
				Type:        widget.ElementInput,
				Label:       "Input Field",
				Placeholder: "Enter something...",
				Validation:  "optional",
				Style:       widget.Style{},
			},
			{
				ID:    "submit",
				Type:  widget.ElementButton,
				Label: "Submit",
				Style: widget.Style{"backgroundColor": "#3b82f6", "color": "white"},
			},
		},
		Logic:   &widget.Logic{OnSubmit: "Process the input"},
		Styling: widget.Styling{Theme: "light", PrimaryColor: "#3b82f6"},
	}
}
