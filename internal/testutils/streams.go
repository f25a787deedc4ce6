package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// generateScene streams the scripted chunks, or prose derived from the beat, then stores
// the text as the scene content.
func (f *FakeService) generateScene(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	i := f.sceneIndex(id)
	if i < 0 {
		f.mu.Unlock()
		notFound(w, "Scene")
		return
	}
	script, scripted := f.scripts[id]
	beat := f.scenes[i].BeatDescription
	f.mu.Unlock()

	if !scripted {
		script = StreamScript{Chunks: words(fmt.Sprintf("The scene unfolds: %s.", beat))}
	}
	text, ok := f.sse(w, r, id, script)
	if ok && script.Error == "" {
		f.EditScene(id, func(s *domain.Scene) { s.Content = text })
	}
}

// chatScene answers a message about the scene as a stream.
func (f *FakeService) chatScene(w http.ResponseWriter, r *http.Request) {
	var msg domain.ChatMessage
	if !decode(w, r, &msg) {
		return
	}
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	i := f.sceneIndex(id)
	script, scripted := f.scripts[id]
	f.mu.Unlock()
	if i < 0 {
		notFound(w, "Scene")
		return
	}
	if !scripted {
		script = StreamScript{Chunks: words("You said: " + msg.Message)}
	}
	f.sse(w, r, id, script)
}

// sse writes frames the way the service does: a ping on connect, one JSON data frame per
// chunk, then a done or error frame. It returns the concatenated text and whether the
// stream ran to completion.
func (f *FakeService) sse(w http.ResponseWriter, r *http.Request, sceneID string, script StreamScript) (string, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "streaming not supported")
		return "", false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	var b strings.Builder
	for _, chunk := range script.Chunks {
		if r.Context().Err() != nil {
			return b.String(), false
		}
		frame(w, map[string]any{"chunk": chunk})
		flusher.Flush()
		b.WriteString(chunk)
	}

	if script.Hold {
		select {
		case <-r.Context().Done():
		case <-f.quit:
		}
		return b.String(), false
	}
	if script.Error != "" {
		frame(w, map[string]any{"error": script.Error})
		flusher.Flush()
		return b.String(), true
	}
	frame(w, map[string]any{"done": true, "scene_id": sceneID})
	flusher.Flush()
	return b.String(), true
}

func frame(w http.ResponseWriter, v any) {
	data, _ := json.Marshal(v)
	fmt.Fprintf(w, "data: %s\n\n", data)
}

// words splits text into chunks that keep their trailing space.
func words(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	for i := range fields[:len(fields)-1] {
		fields[i] += " "
	}
	return fields
}
