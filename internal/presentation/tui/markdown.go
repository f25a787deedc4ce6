package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
)

// The functions below build markdown documents for the CLI listings.

func Novels(novels []domain.Novel) string {
	var b strings.Builder
	b.WriteString("# Novels\n\n")
	if len(novels) == 0 {
		b.WriteString("_No novels yet._\n")
		return b.String()
	}
	b.WriteString("| ID | Title | Genre | Tone |\n|---|---|---|---|\n")
	for _, n := range novels {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", n.ID, cell(n.Title), cell(n.Genre), cell(n.Tone))
	}
	return b.String()
}

func Novel(n domain.Novel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	meta := []string{}
	if n.Genre != "" {
		meta = append(meta, "**Genre:** "+n.Genre)
	}
	if n.Tone != "" {
		meta = append(meta, "**Tone:** "+n.Tone)
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " · ") + "\n\n")
	}
	if n.Premise != "" {
		fmt.Fprintf(&b, "> %s\n\n", n.Premise)
	}
	if n.Worldbuilding != "" {
		fmt.Fprintf(&b, "## World\n\n%s\n", n.Worldbuilding)
	}
	return b.String()
}

func Chapters(chapters []domain.Chapter) string {
	var b strings.Builder
	b.WriteString("# Chapters\n\n")
	if len(chapters) == 0 {
		b.WriteString("_No chapters. Generate an outline first._\n")
		return b.String()
	}
	for _, c := range chapters {
		fmt.Fprintf(&b, "%d. **%s** `%s`", c.OrderIndex, orUntitled(c.Title), c.ID)
		if c.SceneCount > 0 {
			fmt.Fprintf(&b, " (%d scenes)", c.SceneCount)
		}
		b.WriteString("\n")
		if c.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", c.Summary)
		}
	}
	return b.String()
}

func Scenes(scenes []domain.Scene) string {
	var b strings.Builder
	b.WriteString("# Scenes\n\n")
	if len(scenes) == 0 {
		b.WriteString("_No scenes. Generate beats first._\n")
		return b.String()
	}
	b.WriteString("| # | ID | Title | Status | Beat |\n|---|---|---|---|---|\n")
	for _, s := range scenes {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			s.OrderIndex, s.ID, cell(orUntitled(s.Title)), s.Status, cell(s.BeatDescription))
	}
	return b.String()
}

func Scene(s domain.Scene) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", orUntitled(s.Title))
	if s.Location != "" {
		fmt.Fprintf(&b, "**Location:** %s\n\n", s.Location)
	}
	if len(s.CharactersPresent) > 0 {
		fmt.Fprintf(&b, "**Present:** %s\n\n", strings.Join(s.CharactersPresent, ", "))
	}
	if s.BeatDescription != "" {
		fmt.Fprintf(&b, "> %s\n\n", s.BeatDescription)
	}
	if s.Content != "" {
		b.WriteString(s.Content + "\n")
	}
	return b.String()
}

func Characters(chars []domain.Character) string {
	var b strings.Builder
	b.WriteString("# Characters\n\n")
	if len(chars) == 0 {
		b.WriteString("_No characters._\n")
		return b.String()
	}
	for _, c := range chars {
		fmt.Fprintf(&b, "- **%s**", c.Name)
		if c.Role != "" {
			fmt.Fprintf(&b, " (%s)", c.Role)
		}
		if c.Bio != "" {
			fmt.Fprintf(&b, ": %s", c.Bio)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func Lore(entries []domain.Lore) string {
	var b strings.Builder
	b.WriteString("# Lore\n\n")
	if len(entries) == 0 {
		b.WriteString("_No lore entries._\n")
		return b.String()
	}
	for _, l := range entries {
		fmt.Fprintf(&b, "## %s\n\n", l.Title)
		if l.Category != "" {
			fmt.Fprintf(&b, "_%s_\n\n", l.Category)
		}
		fmt.Fprintf(&b, "%s\n\n", l.Content)
	}
	return b.String()
}

func Relationships(rels []domain.Relationship) string {
	var b strings.Builder
	b.WriteString("# Relationships\n\n")
	if len(rels) == 0 {
		b.WriteString("_No relationships._\n")
		return b.String()
	}
	b.WriteString("| A | B | Affinity | Conflict |\n|---|---|---|---|\n")
	for _, r := range rels {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
			refName(r.CharacterA, r.CharacterAID), refName(r.CharacterB, r.CharacterBID),
			r.AffinityScore, cell(r.CoreConflict))
	}
	return b.String()
}

func RAGSummaries(docs []domain.RAGSummary) string {
	var b strings.Builder
	b.WriteString("# Indexed summaries\n\n")
	if len(docs) == 0 {
		b.WriteString("_Nothing indexed._\n")
		return b.String()
	}
	for _, d := range docs {
		fmt.Fprintf(&b, "- `%s`", d.ID)
		if meta, err := d.Meta(); err == nil && meta.Type != "" {
			fmt.Fprintf(&b, " [%s]", meta.Type)
		}
		fmt.Fprintf(&b, " %s\n", d.Text)
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func orUntitled(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}

func refName(ref *domain.CharacterRef, id string) string {
	if ref != nil && ref.Name != "" {
		return ref.Name
	}
	return id
}
