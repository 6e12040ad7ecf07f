// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"github.com/Traves-Theberge/Tasky/internal/config"
	"github.com/Traves-Theberge/Tasky/internal/errors"
	"github.com/Traves-Theberge/Tasky/internal/model"
	"github.com/Traves-Theberge/Tasky/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockScheduler is a mock implementation of the scheduler for testing purposes
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) ScheduleReminder(reminder *model.Reminder) error {
	args := m.Called(reminder)
	return args.Error(0)
}

func (m *MockScheduler) RemoveReminder(id string) {
	m.Called(id)
}

func (m *MockScheduler) UpdateReminder(id string, reminder *model.Reminder) error {
	args := m.Called(id, reminder)
	return args.Error(0)
}

func (m *MockScheduler) LoadReminders(reminders []*model.Reminder) {
	m.Called(reminders)
}

func (m *MockScheduler) ActiveReminders() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockScheduler) TestNotification(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockScheduler) ToggleNotifications(enabled bool) {
	m.Called(enabled)
}

func (m *MockScheduler) ToggleSound(enabled bool) {
	m.Called(enabled)
}

func (m *MockScheduler) SetNotificationType(value string) {
	m.Called(value)
}

func (m *MockScheduler) SetStore(store storage.Store) {
	m.Called(store)
}

func (m *MockScheduler) Start(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockScheduler) Stop() error {
	args := m.Called()
	return args.Error(0)
}

func newTestServer(t *testing.T, sched *MockScheduler) (*MCPServer, storage.Store) {
	t.Helper()
	store, err := storage.NewJSONStore(filepath.Join(t.TempDir(), "tasky.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.DefaultConfig()
	srv, err := NewMCPServer(cfg, sched, store)
	require.NoError(t, err)
	return srv, store
}

// TestRegisterToolsDeclarative tests if tools register without error
func TestRegisterToolsDeclarative(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, _ := newTestServer(t, mockScheduler)
	srv.registerToolsDeclarative()
}

// TestHandleCreateReminder tests the handler for creating a reminder
func TestHandleCreateReminder(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, store := newTestServer(t, mockScheduler)

	params := ReminderParams{
		Message: "Stand up and stretch",
		Time:    "14:30",
		Days:    []string{"monday", "wednesday"},
		Enabled: true,
	}
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	request := &protocol.CallToolRequest{RawArguments: json.RawMessage(raw)}

	mockScheduler.On("ScheduleReminder", mock.AnythingOfType("*model.Reminder")).Return(nil)

	result, err := srv.handleCreateReminder(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	mockScheduler.AssertCalled(t, "ScheduleReminder", mock.AnythingOfType("*model.Reminder"))

	// An id is generated and the reminder lands in storage
	textContent, ok := result.Content[0].(*protocol.TextContent)
	require.True(t, ok)
	var created model.Reminder
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, params.Message, created.Message)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Reminders, 1)
	assert.Equal(t, created.ID, doc.Reminders[0].ID)
}

// TestHandleCreateReminderRejectsInvalid ensures validation runs before scheduling
func TestHandleCreateReminderRejectsInvalid(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, _ := newTestServer(t, mockScheduler)

	request := &protocol.CallToolRequest{
		RawArguments: json.RawMessage(`{"message":"","time":"14:30","days":["monday"],"enabled":true}`),
	}

	res, err := srv.handleCreateReminder(context.Background(), request)
	assert.Nil(t, res)
	assert.Error(t, err)
	mockScheduler.AssertNotCalled(t, "ScheduleReminder", mock.Anything)
}

// TestHandleCreateReminderDuplicateID ensures a duplicate id is rejected
// before the registry sees the new definition, so the existing reminder's
// trigger keeps firing with what storage holds
func TestHandleCreateReminderDuplicateID(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, store := newTestServer(t, mockScheduler)

	doc := storage.DefaultDocument()
	doc.Reminders = []*model.Reminder{
		{ID: "dup", Message: "original", Time: "09:00", Days: []string{"monday"}, Enabled: true},
	}
	require.NoError(t, store.Save(context.Background(), doc))

	request := &protocol.CallToolRequest{
		RawArguments: json.RawMessage(`{"id":"dup","message":"usurper","time":"23:00","days":["monday"],"enabled":true}`),
	}
	res, err := srv.handleCreateReminder(context.Background(), request)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAlreadyExists))
	mockScheduler.AssertNotCalled(t, "ScheduleReminder", mock.Anything)

	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, reloaded.Reminders, 1)
	assert.Equal(t, "original", reloaded.Reminders[0].Message)
}

// TestHandleUpdateReminderUnknownID verifies not_found surfaces for unknown
// ids without the registry gaining a trigger
func TestHandleUpdateReminderUnknownID(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, _ := newTestServer(t, mockScheduler)

	request := &protocol.CallToolRequest{
		RawArguments: json.RawMessage(`{"id":"ghost","message":"hi","time":"09:00","days":["friday"],"enabled":true}`),
	}
	res, err := srv.handleUpdateReminder(context.Background(), request)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	mockScheduler.AssertNotCalled(t, "UpdateReminder", mock.Anything, mock.Anything)
}

// TestHandleRemoveReminder verifies removal from both registry and storage
func TestHandleRemoveReminder(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, store := newTestServer(t, mockScheduler)

	doc := storage.DefaultDocument()
	doc.Reminders = []*model.Reminder{
		{ID: "keep", Message: "keep me", Time: "09:00", Days: []string{"monday"}, Enabled: true},
		{ID: "drop", Message: "drop me", Time: "10:00", Days: []string{"friday"}, Enabled: true},
	}
	require.NoError(t, store.Save(context.Background(), doc))

	mockScheduler.On("RemoveReminder", "drop").Return()

	request := &protocol.CallToolRequest{RawArguments: json.RawMessage(`{"id":"drop"}`)}
	res, err := srv.handleRemoveReminder(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, res)
	mockScheduler.AssertCalled(t, "RemoveReminder", "drop")

	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, reloaded.Reminders, 1)
	assert.Equal(t, "keep", reloaded.Reminders[0].ID)
}

// TestHandleToggleNotificationsPersists checks the toggle reaches settings
func TestHandleToggleNotificationsPersists(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, store := newTestServer(t, mockScheduler)

	mockScheduler.On("ToggleNotifications", false).Return()

	request := &protocol.CallToolRequest{RawArguments: json.RawMessage(`{"enabled":false}`)}
	res, err := srv.handleToggleNotifications(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, res)
	mockScheduler.AssertCalled(t, "ToggleNotifications", false)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, doc.Settings.EnableNotifications)
}

// TestHandleSetNotificationType checks forwarding and persistence
func TestHandleSetNotificationType(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, store := newTestServer(t, mockScheduler)

	mockScheduler.On("SetNotificationType", "native").Return()

	request := &protocol.CallToolRequest{RawArguments: json.RawMessage(`{"type":"native"}`)}
	_, err := srv.handleSetNotificationType(context.Background(), request)
	require.NoError(t, err)
	mockScheduler.AssertCalled(t, "SetNotificationType", "native")

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "native", doc.Settings.NotificationType)
}

// TestHandleTestNotification checks the request is forwarded to the scheduler
func TestHandleTestNotification(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, _ := newTestServer(t, mockScheduler)

	mockScheduler.On("TestNotification", mock.Anything).Return()

	res, err := srv.handleTestNotification(context.Background(), &protocol.CallToolRequest{})
	require.NoError(t, err)
	require.NotNil(t, res)
	mockScheduler.AssertCalled(t, "TestNotification", mock.Anything)
}

// TestHandleListReminders returns stored reminders plus active ids
func TestHandleListReminders(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, store := newTestServer(t, mockScheduler)

	doc := storage.DefaultDocument()
	doc.Reminders = []*model.Reminder{
		{ID: "r1", Message: "water", Time: "11:00", Days: []string{"tuesday"}, Enabled: true},
	}
	require.NoError(t, store.Save(context.Background(), doc))

	mockScheduler.On("ActiveReminders").Return([]string{"r1"})

	res, err := srv.handleListReminders(context.Background(), &protocol.CallToolRequest{})
	require.NoError(t, err)

	textContent, ok := res.Content[0].(*protocol.TextContent)
	require.True(t, ok)
	var payload struct {
		Reminders []*model.Reminder `json:"reminders"`
		Active    []string          `json:"active"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), &payload))
	require.Len(t, payload.Reminders, 1)
	assert.Equal(t, []string{"r1"}, payload.Active)
}

// TestHandleExportData includes settings and version in the export
func TestHandleExportData(t *testing.T) {
	mockScheduler := new(MockScheduler)
	srv, store := newTestServer(t, mockScheduler)

	doc := storage.DefaultDocument()
	doc.Settings.EnableSound = false
	require.NoError(t, store.Save(context.Background(), doc))

	res, err := srv.handleExportData(context.Background(), &protocol.CallToolRequest{})
	require.NoError(t, err)

	textContent, ok := res.Content[0].(*protocol.TextContent)
	require.True(t, ok)
	var payload struct {
		Settings   model.Settings `json:"settings"`
		Version    string         `json:"version"`
		ExportDate string         `json:"exportDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(textContent.Text), &payload))
	assert.False(t, payload.Settings.EnableSound)
	assert.Equal(t, storage.DocumentVersion, payload.Version)
	assert.NotEmpty(t, payload.ExportDate)
}
