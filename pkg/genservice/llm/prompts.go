package llm

import "strings"

const (
	generateSystemPrompt = "You are an expert web developer and UI designer."
	editSystemPrompt     = "You are an expert web developer."
)

const generatePromptTemplate = `
You are an expert web developer and UI designer. Your task is to convert plain-English descriptions into fully functional web widgets.

IMPORTANT: You must respond with ONLY valid JSON that follows this exact schema:

{
  "widgetType": "quiz|calculator|form|timer|todo|custom",
  "title": "Widget Title",
  "description": "Brief description",
  "elements": [
    {
      "type": "text|input|button|question|timer|todo_item|calculation",
      "id": "unique_id",
      "label": "Display text",
      "placeholder": "Placeholder text (if applicable)",
      "options": ["option1", "option2"] (for questions),
      "validation": "required|email|number|optional",
      "defaultValue": "default value",
      "style": {
        "backgroundColor": "color",
        "color": "text color",
        "fontSize": "size",
        "borderRadius": "radius"
      }
    }
  ],
  "logic": {
    "onSubmit": "action description",
    "onChange": "action description",
    "calculations": ["formula1", "formula2"],
    "conditions": [
      {
        "if": "condition",
        "then": "action"
      }
    ]
  },
  "styling": {
    "theme": "light|dark|colorful",
    "primaryColor": "#color",
    "secondaryColor": "#color",
    "fontFamily": "font name"
  }
}

User request: {prompt}

Generate a widget that matches this description. Make it functional, beautiful, and user-friendly.
`

const editPromptTemplate = `
You are an expert web developer. The user wants to edit an existing widget using natural language.

Current widget JSON:
{current_widget}

User's edit request: {edit_prompt}

Return ONLY the updated JSON with the requested changes applied. Maintain the same structure but update the relevant parts.
`

// GeneratePrompt builds the user message for a new widget.
func GeneratePrompt(prompt string) string {
	return strings.Replace(generatePromptTemplate, "{prompt}", prompt, 1)
}

// EditPrompt builds the user message for an edit. currentWidget is the
// indented JSON of the widget being edited.
func EditPrompt(currentWidget, instruction string) string {
	return strings.NewReplacer(
		"{current_widget}", currentWidget,
		"{edit_prompt}", instruction,
	).Replace(editPromptTemplate)
}
