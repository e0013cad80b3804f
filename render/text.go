package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/nomis52/activityboard/board"
	"github.com/nomis52/activityboard/status"
)

// Text writes a plain text rendering of state, used by the command line client.
// It follows the same layout rules as the DOM rendering.
func Text(w io.Writer, state board.UiState) error {
	var b strings.Builder

	if state.LoadFailed() {
		b.WriteString(state.LoadError)
		b.WriteString("\n")
	}
	for i, a := range state.Activities {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n", a.Name)
		if a.Description != "" {
			fmt.Fprintf(&b, "  %s\n", a.Description)
		}
		fmt.Fprintf(&b, "  Schedule: %s\n", a.Schedule)
		fmt.Fprintf(&b, "  Availability: %s\n", SpotsLeftText(a.SpotsLeft))
		b.WriteString("  Participants:\n")
		if len(a.Participants) == 0 {
			fmt.Fprintf(&b, "    %s\n", NoParticipantsText)
		}
		for _, p := range a.Participants {
			fmt.Fprintf(&b, "    - %s\n", p.Email)
		}
	}

	if line := StatusLine(state.Status); line != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// StatusLine formats a visible status message as "[severity] text". Hidden messages
// yield an empty string.
func StatusLine(msg status.Message) string {
	if !msg.Visible {
		return ""
	}
	return fmt.Sprintf("[%s] %s", msg.Severity, msg.Text)
}
