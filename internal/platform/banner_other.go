// SPDX-License-Identifier: AGPL-3.0-only

//go:build !windows && !darwin

package platform

import (
	"context"
	"fmt"
	"os"
)

// consoleBanner writes the reminder to stdout. On platforms without a
// supported banner helper the console line is the last visible channel.
type consoleBanner struct{}

func newBanner() Banner {
	return &consoleBanner{}
}

func (b *consoleBanner) Show(ctx context.Context, title, message string) error {
	_, err := fmt.Fprintf(os.Stdout, "🔔 %s: %s\n", title, message)
	return err
}

func (b *consoleBanner) Cleanup() error {
	return nil
}
