package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "languages",
		Short:       "List languages with a default alignment model",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			models := language.AlignModels()
			if asJSON {
				type entry struct {
					Code   string `json:"code"`
					Name   string `json:"name"`
					Model  string `json:"model"`
					Source string `json:"source"`
				}
				entries := make([]entry, 0, len(models))
				for _, m := range models {
					entries = append(entries, entry{
						Code:   m.Language,
						Name:   language.DisplayName(m.Language),
						Model:  m.Name,
						Source: string(m.Source),
					})
				}
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, len(models))
			for _, m := range models {
				rows = append(rows, []string{m.Language, language.DisplayName(m.Language), m.Name, string(m.Source)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Language", "Alignment model", "Source"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
