package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcos-nsantos/notes-backend/internal/domain/valueobject"
	"github.com/marcos-nsantos/notes-backend/internal/usecase/note"
)

func createCmd(a *app) *cobra.Command {
	var (
		title   string
		content string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Example: `  notesctl create --title "Groceries" --content "milk, eggs" --tag home --tag errands
  notesctl create -t "Idea" -c "..." -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd.Context(), func(svc *note.Service) error {
				n, err := svc.Create(cmd.Context(), note.CreateInput{
					Title:   title,
					Content: content,
					Tags:    tags,
				})
				if err != nil {
					return err
				}
				return printNote(cmd.OutOrStdout(), a.output, n)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "note content")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag to attach, repeatable")

	return cmd
}

func getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := valueobject.ParseNoteID(args[0])
			if err != nil {
				return err
			}

			return a.withService(cmd.Context(), func(svc *note.Service) error {
				n, err := svc.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				return printNote(cmd.OutOrStdout(), a.output, n)
			})
		},
	}
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd.Context(), func(svc *note.Service) error {
				notes, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				return printNotes(cmd.OutOrStdout(), a.output, notes)
			})
		},
	}
}

func updateCmd(a *app) *cobra.Command {
	var (
		title     string
		content   string
		tags      []string
		clearTags bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a note's title, content or tags",
		Long: `Update a note. Fields whose flags are not given keep their current value;
--tag replaces the whole tag list and --clear-tags empties it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := valueobject.ParseNoteID(args[0])
			if err != nil {
				return err
			}
			if clearTags && cmd.Flags().Changed("tag") {
				return fmt.Errorf("--tag and --clear-tags are mutually exclusive")
			}

			var input note.PatchInput
			if cmd.Flags().Changed("title") {
				input.Title = &title
			}
			if cmd.Flags().Changed("content") {
				input.Content = &content
			}
			switch {
			case clearTags:
				input.Tags = &[]string{}
			case cmd.Flags().Changed("tag"):
				input.Tags = &tags
			}

			return a.withService(cmd.Context(), func(svc *note.Service) error {
				n, err := svc.Patch(cmd.Context(), id, input)
				if err != nil {
					return err
				}
				return printNote(cmd.OutOrStdout(), a.output, n)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new content")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag to set, repeatable; replaces existing tags")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "remove all tags")

	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := valueobject.ParseNoteID(args[0])
			if err != nil {
				return err
			}

			return a.withService(cmd.Context(), func(svc *note.Service) error {
				if err := svc.Delete(cmd.Context(), id); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
				return err
			})
		},
	}
}
