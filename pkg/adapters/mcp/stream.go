package mcp

import (
	"context"

	"github.com/aretw0/folio/pkg/session"
)

// collect opens a channel through the session registry and reads it to the end.
// A newer request for the same scene closes this one.
func (s *Server) collect(ctx context.Context, sceneID string, open session.OpenFunc) (StreamResult, error) {
	ch, err := s.sessions.Open(ctx, sceneID, open)
	if err != nil {
		return StreamResult{SceneID: sceneID}, err
	}
	defer ch.Close()

	text, err := ch.Collect(ctx)
	return StreamResult{
		SceneID: sceneID,
		Text:    text,
		State:   ch.State().String(),
	}, err
}
