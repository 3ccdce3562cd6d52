package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/simpleforms/pkg/forms"
)

type formReport struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
	Emails []string `json:"emails"`
}

type checkResult struct {
	Valid bool         `json:"valid"`
	Error string       `json:"error,omitempty"`
	Forms []formReport `json:"forms,omitempty"`
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every form definition and report problems",
		Long: `Load every form definition the way the server does and report the first
problem found. Templates are not rendered and no email is sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts, false)
			if err != nil {
				return err
			}
			storage, err := newStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			result := checkResult{Valid: true}
			reg, loadErr := forms.Load(cmd.Context(), storage)
			if loadErr != nil {
				result = checkResult{Error: loadErr.Error()}
			} else {
				for _, name := range reg.Names() {
					def, err := reg.Get(name)
					if err != nil {
						return err
					}
					result.Forms = append(result.Forms, report(def))
				}
			}

			if err := writeCheck(cmd.OutOrStdout(), opts.format, result); err != nil {
				return err
			}
			return loadErr
		},
	}
}

func report(def *forms.Definition) formReport {
	r := formReport{Name: def.Name, Title: def.Title}
	for _, f := range def.Fields {
		r.Fields = append(r.Fields, f.Name)
	}
	for _, e := range def.Emails {
		r.Emails = append(r.Emails, e.Key)
	}
	return r
}

func writeCheck(w io.Writer, format string, result checkResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if !result.Valid {
		_, err := fmt.Fprintf(w, "✗ %s\n", result.Error)
		return err
	}
	for _, f := range result.Forms {
		if _, err := fmt.Fprintf(w, "✓ %s (%s)\n  fields: %s\n  emails: %s\n",
			f.Name, f.Title, strings.Join(f.Fields, ", "), strings.Join(f.Emails, ", ")); err != nil {
			return err
		}
	}
	return nil
}
