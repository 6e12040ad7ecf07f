// SPDX-License-Identifier: AGPL-3.0-only

//go:build darwin

package platform

import (
	"context"
	"fmt"
	"os/exec"
)

// darwinBanner shows a notification center banner via osascript.
type darwinBanner struct{}

func newBanner() Banner {
	return &darwinBanner{}
}

func (b *darwinBanner) Show(ctx context.Context, title, message string) error {
	script := fmt.Sprintf("display notification %q with title %q", message, title)
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("osascript banner: %w", err)
	}
	return nil
}

func (b *darwinBanner) Cleanup() error {
	// osascript exits on its own; nothing to release.
	return nil
}
