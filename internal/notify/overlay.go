// SPDX-License-Identifier: AGPL-3.0-only
package notify

// BubbleSide is the side of the overlay character the speech bubble renders on.
type BubbleSide string

const (
	// BubbleLeft renders the speech bubble on the left of the character
	BubbleLeft BubbleSide = "left"
	// BubbleRight renders the speech bubble on the right of the character
	BubbleRight BubbleSide = "right"
)

// Overlay is the animated character surface that can display short text
// bubbles. It is a pure side-effect sink: the dispatcher calls it, never
// the reverse. When visible it is the preferred delivery channel and
// suppresses native notifications.
type Overlay interface {
	// Speak renders the text in a speech bubble.
	Speak(text string) error
	// IsVisible reports whether the overlay is currently shown to the user.
	IsVisible() bool
	// SetBubbleSide moves the speech bubble to the given side.
	SetBubbleSide(side BubbleSide)
}

// NopOverlay is an Overlay that is never visible. Used when the app runs
// without the character surface.
type NopOverlay struct{}

func (NopOverlay) Speak(string) error       { return nil }
func (NopOverlay) IsVisible() bool          { return false }
func (NopOverlay) SetBubbleSide(BubbleSide) {}
