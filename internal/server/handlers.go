// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/google/uuid"

	"github.com/Traves-Theberge/Tasky/internal/errors"
	"github.com/Traves-Theberge/Tasky/internal/model"
	"github.com/Traves-Theberge/Tasky/internal/storage"
)

// ReminderIDParams holds the id parameter used by multiple handlers
type ReminderIDParams struct {
	ID string `json:"id" description:"the ID of the reminder"`
}

// ReminderParams defines parameters for creating or updating a reminder
type ReminderParams struct {
	ID      string   `json:"id,omitempty" description:"reminder ID; generated when omitted on create"`
	Message string   `json:"message" description:"reminder text shown to the user"`
	Time    string   `json:"time" description:"time of day, HH:MM 24-hour"`
	Days    []string `json:"days" description:"weekday names, e.g. monday"`
	Enabled bool     `json:"enabled" description:"whether the reminder fires"`
}

// ToggleParams defines parameters for the toggle tools
type ToggleParams struct {
	Enabled bool `json:"enabled" description:"new state of the toggle"`
}

// NotificationTypeParams defines parameters for set_notification_type
type NotificationTypeParams struct {
	Type string `json:"type" description:"legacy notification type; 'native' moves the overlay bubble right"`
}

// EmptyParams is used by tools that take no arguments
type EmptyParams struct{}

// extractParams extracts parameters from a tool request
func extractParams(request *protocol.CallToolRequest, params interface{}) error {
	if len(request.RawArguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(request.RawArguments, params); err != nil {
		return errors.InvalidInput(fmt.Sprintf("invalid parameters: %v", err))
	}
	return nil
}

func (p *ReminderParams) toReminder() *model.Reminder {
	now := time.Now()
	return &model.Reminder{
		ID:        p.ID,
		Message:   p.Message,
		Time:      p.Time,
		Days:      p.Days,
		Enabled:   p.Enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// handleListReminders lists the persisted reminders and the active ids
func (s *MCPServer) handleListReminders(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	s.logger.Debugf("Handling list_reminders request")

	reminders := []*model.Reminder{}
	if s.store != nil {
		doc, err := s.store.Load(ctx)
		if err != nil {
			return nil, errors.Internal(err)
		}
		reminders = doc.Reminders
	}

	return createJSONResponse(map[string]interface{}{
		"reminders": reminders,
		"active":    s.scheduler.ActiveReminders(),
	})
}

// handleCreateReminder persists and schedules a new reminder
func (s *MCPServer) handleCreateReminder(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ReminderParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		params.ID = uuid.NewString()
	}

	reminder := params.toReminder()
	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	s.logger.Debugf("Handling create_reminder request for %s", reminder.ID)

	// Persist before scheduling: a duplicate id must be rejected without
	// the registry ever seeing the new definition, or the live trigger
	// for the existing reminder would be silently replaced.
	err := s.mutateDocument(ctx, func(doc *storage.Document) error {
		for _, existing := range doc.Reminders {
			if existing.ID == reminder.ID {
				return errors.AlreadyExists("reminder", reminder.ID)
			}
		}
		doc.Reminders = append(doc.Reminders, reminder)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.scheduler.ScheduleReminder(reminder); err != nil {
		return nil, err
	}

	return createJSONResponse(reminder)
}

// handleUpdateReminder replaces a reminder's definition and trigger
func (s *MCPServer) handleUpdateReminder(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ReminderParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, errors.InvalidInput("reminder id is required")
	}

	reminder := params.toReminder()
	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	s.logger.Debugf("Handling update_reminder request for %s", reminder.ID)

	// Persist before rescheduling: an unknown id must fail without the
	// registry gaining a trigger storage knows nothing about.
	err := s.mutateDocument(ctx, func(doc *storage.Document) error {
		for i, existing := range doc.Reminders {
			if existing.ID == reminder.ID {
				reminder.CreatedAt = existing.CreatedAt
				doc.Reminders[i] = reminder
				return nil
			}
		}
		return errors.NotFound("reminder", reminder.ID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.scheduler.UpdateReminder(reminder.ID, reminder); err != nil {
		return nil, err
	}

	return createJSONResponse(reminder)
}

// handleRemoveReminder removes a reminder and its trigger
func (s *MCPServer) handleRemoveReminder(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ReminderIDParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, errors.InvalidInput("reminder id is required")
	}

	s.logger.Debugf("Handling remove_reminder request for %s", params.ID)

	s.scheduler.RemoveReminder(params.ID)

	err := s.mutateDocument(ctx, func(doc *storage.Document) error {
		kept := doc.Reminders[:0]
		for _, existing := range doc.Reminders {
			if existing.ID != params.ID {
				kept = append(kept, existing)
			}
		}
		doc.Reminders = kept
		return nil
	})
	if err != nil {
		return nil, err
	}

	return createSuccessResponse(fmt.Sprintf("Reminder %s removed", params.ID))
}

// handleToggleNotifications flips the global notification gate
func (s *MCPServer) handleToggleNotifications(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ToggleParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}

	s.scheduler.ToggleNotifications(params.Enabled)

	err := s.mutateDocument(ctx, func(doc *storage.Document) error {
		doc.Settings.EnableNotifications = params.Enabled
		return nil
	})
	if err != nil {
		return nil, err
	}

	return createSuccessResponse(fmt.Sprintf("Notifications %s", onOff(params.Enabled)))
}

// handleToggleSound flips the global sound gate
func (s *MCPServer) handleToggleSound(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ToggleParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}

	s.scheduler.ToggleSound(params.Enabled)

	err := s.mutateDocument(ctx, func(doc *storage.Document) error {
		doc.Settings.EnableSound = params.Enabled
		return nil
	})
	if err != nil {
		return nil, err
	}

	return createSuccessResponse(fmt.Sprintf("Sound %s", onOff(params.Enabled)))
}

// handleSetNotificationType stores the legacy setting and moves the bubble
func (s *MCPServer) handleSetNotificationType(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params NotificationTypeParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}
	if params.Type == "" {
		return nil, errors.InvalidInput("notification type is required")
	}

	s.scheduler.SetNotificationType(params.Type)

	err := s.mutateDocument(ctx, func(doc *storage.Document) error {
		doc.Settings.NotificationType = params.Type
		return nil
	})
	if err != nil {
		return nil, err
	}

	return createSuccessResponse(fmt.Sprintf("Notification type set to %s", params.Type))
}

// handleTestNotification dispatches a synthesized reminder immediately
func (s *MCPServer) handleTestNotification(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	s.logger.Debugf("Handling test_notification request")
	s.scheduler.TestNotification(ctx)
	return createSuccessResponse("Test notification dispatched")
}

// handleExportData returns the whole persisted document
func (s *MCPServer) handleExportData(ctx context.Context, request *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	if s.store == nil {
		return nil, errors.InvalidInput("no storage configured")
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return createJSONResponse(map[string]interface{}{
		"reminders":  doc.Reminders,
		"settings":   doc.Settings,
		"version":    doc.Version,
		"exportDate": time.Now().Format(time.RFC3339),
	})
}

// createSuccessResponse creates a success response
func createSuccessResponse(message string) (*protocol.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// createJSONResponse marshals v into a text content response
func createJSONResponse(v interface{}) (*protocol.CallToolResult, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to marshal response: %w", err))
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			&protocol.TextContent{
				Type: "text",
				Text: string(payload),
			},
		},
	}, nil
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
