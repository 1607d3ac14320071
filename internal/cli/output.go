package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/marcos-nsantos/notes-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/notes-backend/internal/domain/entity"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"

	dateLayout = "2006-01-02 15:04"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

func printNote(w io.Writer, format string, n *entity.Note) error {
	switch format {
	case outputJSON:
		return writeJSON(w, response.NoteFromEntity(n))
	case outputYAML:
		return writeYAML(w, response.NoteFromEntity(n))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", bold(n.Title()))
	fmt.Fprintf(&sb, "%s %s\n", faint("ID:"), n.ID())
	fmt.Fprintf(&sb, "%s %s\n", faint("Created:"), n.CreatedAt().Local().Format(dateLayout))
	fmt.Fprintf(&sb, "%s %s\n", faint("Updated:"), n.UpdatedAt().Local().Format(dateLayout))
	if tags := n.Tags(); len(tags) > 0 {
		fmt.Fprintf(&sb, "%s %s\n", faint("Tags:"), cyan(strings.Join(tags, ", ")))
	}
	fmt.Fprintf(&sb, "\n%s\n", n.Content())

	_, err := io.WriteString(w, sb.String())
	return err
}

func printNotes(w io.Writer, format string, notes []*entity.Note) error {
	switch format {
	case outputJSON:
		return writeJSON(w, response.NotesListResponse{Notes: response.NotesFromEntities(notes)})
	case outputYAML:
		return writeYAML(w, response.NotesListResponse{Notes: response.NotesFromEntities(notes)})
	}

	if len(notes) == 0 {
		_, err := fmt.Fprintln(w, "No notes found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTAGS\tUPDATED")
	for _, n := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			faint(n.ID()),
			bold(n.Title()),
			cyan(strings.Join(n.Tags(), ",")),
			n.UpdatedAt().Local().Format(dateLayout),
		)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
