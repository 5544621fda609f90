package agent

import (
	"sort"

	"github.com/elee1766/taskchat/src/aisdk"
)

// ToChatTool converts a Tool interface to ChatTool for API requests
func ToChatTool(tool Tool) *aisdk.ChatTool {
	def := aisdk.NewFunctionTool(tool.GetName(), tool.GetDescription(), tool.GetParameters())
	if t := tool.GetType(); t != "" {
		def.Type = t
	}
	return def
}

// ToChatTools converts tools to ChatTools ordered by name.
func ToChatTools(tools []Tool) []*aisdk.ChatTool {
	chatTools := make([]*aisdk.ChatTool, len(tools))
	for i, tool := range tools {
		chatTools[i] = ToChatTool(tool)
	}
	sort.Slice(chatTools, func(i, j int) bool {
		return chatTools[i].Function.Name < chatTools[j].Function.Name
	})
	return chatTools
}
