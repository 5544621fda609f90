// Package taskagent configures the task management assistant: its tool
// catalog and its system prompt.
package taskagent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/elee1766/taskchat/src/agent"
)

const (
	mainPromptTemplate = `You are a task management assistant. You help the user keep track of their todo list through conversation.

You can add tasks, list them, mark them complete, change them and delete them using the tools described below. Every tool acts only on the current user's tasks.`

	guidelinesSection = `# Guidelines
- Use a tool whenever the user asks you to change or look at their tasks. Never claim a change happened unless a tool result confirms it.
- When the user refers to a task by name rather than id, call list_tasks first to find its id.
- If a tool returns an error, explain the problem briefly and ask for what is missing instead of guessing.
- Resolve relative dates ("tomorrow", "next friday") against today's date and pass them as YYYY-MM-DD.
- Keep replies short and friendly. Summarize what you did in one or two sentences.
- If the user asks about something unrelated to tasks, answer briefly and steer back to their todo list.`
)

// getEnvironmentInfo renders the date the assistant resolves relative dates
// against.
func getEnvironmentInfo(now time.Time) string {
	return fmt.Sprintf(`<env>
Today's date: %s (%s)
</env>`, now.Format("2006-01-02"), now.Weekday())
}

func schemaType(schema *jsonschema.Schema) string {
	if schema.Type != nil {
		if schema.Type.SimpleTypes != nil {
			return string(*schema.Type.SimpleTypes)
		} else if len(schema.Type.SliceOfSimpleTypeValues) > 0 {
			return string(schema.Type.SliceOfSimpleTypeValues[0])
		}
	}
	return "object"
}

func formatEnum(values []interface{}) string {
	enumStrs := make([]string, 0, len(values))
	for _, e := range values {
		enumStrs = append(enumStrs, fmt.Sprintf(`"%v"`, e))
	}
	return fmt.Sprintf("(enum: %s)", strings.Join(enumStrs, " | "))
}

// formatSchemaForPrompt formats a JSON schema for display in the prompt
func formatSchemaForPrompt(schema *jsonschema.Schema, indentLevel int) string {
	if schema == nil {
		return "unknown"
	}

	indent := strings.Repeat("  ", indentLevel)
	parts := []string{}

	if schema.Description != nil && *schema.Description != "" {
		parts = append(parts, fmt.Sprintf("%s# %s", indent, *schema.Description))
	}

	detailParts := []string{}
	if len(schema.Enum) > 0 {
		detailParts = append(detailParts, formatEnum(schema.Enum))
	}
	if len(schema.Properties) > 0 && len(schema.Required) > 0 {
		detailParts = append(detailParts, fmt.Sprintf("(required: %s)", strings.Join(schema.Required, ", ")))
	}

	line := indent + schemaType(schema)
	if len(detailParts) > 0 {
		line += " " + strings.Join(detailParts, " ")
	}
	parts = append(parts, line)

	propNames := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)

	for _, propName := range propNames {
		propSchema := schema.Properties[propName].TypeObject
		if propSchema == nil {
			continue
		}
		propType := schemaType(propSchema)
		if len(propSchema.Enum) > 0 {
			propType += " " + formatEnum(propSchema.Enum)
		}
		line := fmt.Sprintf("%s  %s: %s", indent, propName, propType)
		if propSchema.Description != nil && *propSchema.Description != "" {
			line += fmt.Sprintf(" # %s", *propSchema.Description)
		}
		parts = append(parts, line)
	}

	return strings.Join(parts, "\n")
}

// formatToolsForPrompt formats tools for display in the prompt
func formatToolsForPrompt(toolbox *agent.DefaultToolbox) string {
	if toolbox == nil {
		return "No tools available."
	}

	tools := toolbox.Tools()
	if len(tools) == 0 {
		return "No tools available."
	}

	toolStrings := []string{}
	for _, tool := range tools {
		parts := []string{
			fmt.Sprintf("Tool: %s", tool.GetName()),
			fmt.Sprintf("Description: %s", tool.GetDescription()),
			"Input Schema:",
		}
		if tool.GetParameters() != nil {
			parts = append(parts, formatSchemaForPrompt(tool.GetParameters(), 1))
		} else {
			parts = append(parts, "  # No schema defined")
		}
		toolStrings = append(toolStrings, strings.Join(parts, "\n"))
	}

	return fmt.Sprintf("You have access to the following tools:\n\n%s", strings.Join(toolStrings, "\n\n---\n\n"))
}

// GenerateSystemPrompt assembles all sections into the final system prompt.
func GenerateSystemPrompt(toolbox *agent.DefaultToolbox, now time.Time) string {
	sections := []string{
		mainPromptTemplate,
		guidelinesSection,
		getEnvironmentInfo(now),
		formatToolsForPrompt(toolbox),
	}
	return strings.Join(sections, "\n\n")
}
