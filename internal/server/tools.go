// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"context"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
)

// ToolDefinition describes one MCP tool: its metadata, the handler, and
// the struct whose fields become the parameter schema.
type ToolDefinition struct {
	Name        string
	Description string
	Handler     func(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error)
	Parameters  interface{}
}

// registerToolsDeclarative registers every tool the server exposes.
func (s *MCPServer) registerToolsDeclarative() {
	tools := []ToolDefinition{
		{
			Name:        "list_reminders",
			Description: "List all stored reminders and the ids with an active trigger",
			Handler:     s.handleListReminders,
			Parameters:  EmptyParams{},
		},
		{
			Name:        "create_reminder",
			Description: "Create a reminder that fires at a time of day on the given weekdays",
			Handler:     s.handleCreateReminder,
			Parameters:  ReminderParams{},
		},
		{
			Name:        "update_reminder",
			Description: "Replace an existing reminder's message, time, days or enabled state",
			Handler:     s.handleUpdateReminder,
			Parameters:  ReminderParams{},
		},
		{
			Name:        "remove_reminder",
			Description: "Remove a reminder and cancel its trigger",
			Handler:     s.handleRemoveReminder,
			Parameters:  ReminderIDParams{},
		},
		{
			Name:        "toggle_notifications",
			Description: "Enable or disable all reminder notifications",
			Handler:     s.handleToggleNotifications,
			Parameters:  ToggleParams{},
		},
		{
			Name:        "toggle_sound",
			Description: "Enable or disable the notification sound",
			Handler:     s.handleToggleSound,
			Parameters:  ToggleParams{},
		},
		{
			Name:        "set_notification_type",
			Description: "Set the notification type and move the assistant speech bubble",
			Handler:     s.handleSetNotificationType,
			Parameters:  NotificationTypeParams{},
		},
		{
			Name:        "test_notification",
			Description: "Dispatch a test notification through the delivery chain right now",
			Handler:     s.handleTestNotification,
			Parameters:  EmptyParams{},
		},
		{
			Name:        "export_data",
			Description: "Export all reminders and settings as JSON",
			Handler:     s.handleExportData,
			Parameters:  EmptyParams{},
		},
	}

	for _, def := range tools {
		s.registerToolWithError(def)
	}
}

// registerToolWithError registers a single tool, logging registration failures.
func (s *MCPServer) registerToolWithError(def ToolDefinition) {
	tool, err := protocol.NewTool(def.Name, def.Description, def.Parameters)
	if err != nil {
		s.logger.Errorf("Failed to create tool %s: %v", def.Name, err)
		return
	}
	s.server.RegisterTool(tool, def.Handler)
}
