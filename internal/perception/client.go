// Package perception talks to completion services. It knows nothing about
// actions or personas beyond the conversation turns it is handed; the
// orchestrator assembles instructions, and articulation interprets whatever
// text comes back.
package perception

import (
	"context"
	"errors"

	"haru/internal/types"
)

// Client is the interface completion providers implement. The returned string
// is raw model text; callers must treat it as untrusted.
type Client interface {
	Complete(ctx context.Context, systemInstruction string, history []types.ConversationTurn) (string, error)
}

// ErrNoCredential reports that no usable API key could be resolved for a
// connection. The orchestrator degrades this to a per-persona warning rather
// than aborting the turn.
var ErrNoCredential = errors.New("no usable credential for connection")
