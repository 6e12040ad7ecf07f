// SPDX-License-Identifier: AGPL-3.0-only

//go:build windows

package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// windowsBanner shows a system-tray balloon via PowerShell, falling back to
// a toast notification when the balloon helper exits non-zero.
type windowsBanner struct{}

func newBanner() Banner {
	return &windowsBanner{}
}

func (b *windowsBanner) Show(ctx context.Context, title, message string) error {
	escaped := escapePowerShell(message)
	escapedTitle := escapePowerShell(title)

	balloon := fmt.Sprintf(
		`Add-Type -AssemblyName System.Windows.Forms; `+
			`$balloon = New-Object System.Windows.Forms.NotifyIcon; `+
			`$balloon.Icon = [System.Drawing.SystemIcons]::Information; `+
			`$balloon.BalloonTipTitle = '%s'; `+
			`$balloon.BalloonTipText = '%s'; `+
			`$balloon.Visible = $true; `+
			`$balloon.ShowBalloonTip(5000); `+
			`Start-Sleep -Seconds 6; `+
			`$balloon.Dispose();`,
		escapedTitle, escaped)

	cmd := exec.CommandContext(ctx, "powershell", "-WindowStyle", "Hidden", "-Command", balloon)
	if err := cmd.Run(); err == nil {
		return nil
	}

	// Secondary fallback: a Windows 10/11 toast.
	toast := fmt.Sprintf(
		`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] > $null; `+
			`try { `+
			`$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02); `+
			`$toastXml = [xml] $template.GetXml(); `+
			`$toastXml.GetElementsByTagName("text")[0].AppendChild($toastXml.CreateTextNode("%s")) > $null; `+
			`$toastXml.GetElementsByTagName("text")[1].AppendChild($toastXml.CreateTextNode("%s")) > $null; `+
			`$toast = [Windows.UI.Notifications.ToastNotification]::new($toastXml); `+
			`[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("Tasky").Show($toast); `+
			`} catch { Write-Host "Toast failed" }`,
		escapedTitle, escaped)

	cmd = exec.CommandContext(ctx, "powershell", "-WindowStyle", "Hidden", "-Command", toast)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("powershell banner: %w", err)
	}
	return nil
}

// Cleanup kills lingering PowerShell helpers spawned for balloons. Fire and
// forget; failures are irrelevant during teardown.
func (b *windowsBanner) Cleanup() error {
	cmd := exec.Command("taskkill", "/f", "/im", "powershell.exe", "/fi", "WINDOWTITLE eq Windows PowerShell")
	return cmd.Start()
}

func escapePowerShell(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	return strings.ReplaceAll(s, `"`, `""`)
}
