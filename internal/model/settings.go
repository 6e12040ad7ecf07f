// SPDX-License-Identifier: AGPL-3.0-only
package model

// Settings is the flat settings map persisted alongside reminders. Only the
// notification toggles and the legacy notification type are read by the
// engine; the remaining fields belong to the UI layer and are carried so a
// storage round-trip never drops them.
type Settings struct {
	EnableNotifications bool     `json:"enableNotifications"`
	EnableSound         bool     `json:"enableSound"`
	EnableAssistant     bool     `json:"enableAssistant"`
	AutoStart           bool     `json:"autoStart"`
	NotificationType    string   `json:"notificationType"`
	SelectedAvatar      string   `json:"selectedAvatar"`
	DarkMode            bool     `json:"darkMode"`
	EnableAnimation     bool     `json:"enableAnimation"`
	TimeFormat          string   `json:"timeFormat"`
	EnableDragging      bool     `json:"enableDragging"`
	AssistantLayer      string   `json:"assistantLayer"`
	CustomAvatarPath    string   `json:"customAvatarPath"`
	CustomAvatars       []string `json:"customAvatars"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{
		EnableNotifications: true,
		EnableSound:         true,
		EnableAssistant:     true,
		AutoStart:           false,
		NotificationType:    "custom",
		SelectedAvatar:      "Clippy",
		DarkMode:            false,
		EnableAnimation:     true,
		TimeFormat:          "24",
		EnableDragging:      true,
		AssistantLayer:      "above",
		CustomAvatarPath:    "",
		CustomAvatars:       []string{},
	}
}
