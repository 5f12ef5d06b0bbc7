package app

import (
	"context"
)

// Dialog is the interface for bot's dialogs. Implementations should be in the 'dialogs' directory.
type Dialog interface {
	// OnMessage called when user sends a message, being in this dialog
	OnMessage(ctx context.Context, text string, msgID int) error
}
