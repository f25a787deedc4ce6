package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
)

// Structure is a novel with its chapters and the scenes of each chapter.
type Structure struct {
	Novel    domain.Novel
	Chapters []domain.Chapter
	// Scenes maps a chapter id to its scenes.
	Scenes map[string][]domain.Scene
}

// Overlay marks editing state on the diagram.
type Overlay struct {
	CurrentChapter string
	CurrentScene   string
}

// GenerateMermaid produces a Mermaid flowchart of the novel structure.
// Shapes:
// - Novel: ((Circle))
// - Chapter: [[Subroutine]]
// - Scene: [Rectangle], approved scenes get the "approved" class
// Chapters are chained in reading order; scenes hang off their chapter.
func GenerateMermaid(s Structure, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root := "novel_" + sanitizeMermaidID(s.Novel.ID)
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", root, label(s.Novel.Title, s.Novel.ID))

	prev := root
	var approved []string
	for _, ch := range s.Chapters {
		chID := "chapter_" + sanitizeMermaidID(ch.ID)
		fmt.Fprintf(&sb, "    %s[[\"%d. %s\"]]\n", chID, ch.OrderIndex, label(ch.Title, ch.ID))
		if prev == root {
			fmt.Fprintf(&sb, "    %s --> %s\n", root, chID)
		} else {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", prev, chID)
		}
		prev = chID

		for _, sc := range s.Scenes[ch.ID] {
			scID := "scene_" + sanitizeMermaidID(sc.ID)
			text := label(sc.Title, sc.ID)
			if sc.TensionLevel > 0 {
				text = fmt.Sprintf("%s <br/> tension %d", text, sc.TensionLevel)
			}
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", scID, text)
			fmt.Fprintf(&sb, "    %s --> %s\n", chID, scID)
			if sc.Status == domain.SceneApproved {
				approved = append(approved, scID)
			}
		}
	}

	if len(approved) > 0 || overlay != nil {
		sb.WriteString("\n    %% Styles\n")
		sb.WriteString("    classDef approved fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range approved {
			fmt.Fprintf(&sb, "    class %s approved;\n", id)
		}
	}
	if overlay != nil {
		if overlay.CurrentChapter != "" {
			fmt.Fprintf(&sb, "    class chapter_%s current;\n", sanitizeMermaidID(overlay.CurrentChapter))
		}
		if overlay.CurrentScene != "" {
			fmt.Fprintf(&sb, "    class scene_%s current;\n", sanitizeMermaidID(overlay.CurrentScene))
		}
	}

	return sb.String()
}

func label(title, fallback string) string {
	if title == "" {
		title = fallback
	}
	return strings.ReplaceAll(title, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
