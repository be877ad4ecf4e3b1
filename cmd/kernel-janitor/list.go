// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"kernel-janitor/internal/kernel"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
	outputTOML = "toml"
)

// ErrInvalidOutputFormat is returned for an unknown --output value.
var ErrInvalidOutputFormat = errors.New("invalid output format")

type (
	// kernelListing is the document written by list --output json|yaml|toml.
	kernelListing struct {
		Kernels []kernelEntry `json:"kernels" yaml:"kernels" toml:"kernels"`
	}

	// kernelEntry describes one record. Missing artifacts have empty paths.
	kernelEntry struct {
		Index     int      `json:"index" yaml:"index" toml:"index"`
		Version   string   `json:"version" yaml:"version" toml:"version"`
		Legacy    bool     `json:"legacy" yaml:"legacy" toml:"legacy"`
		Complete  bool     `json:"complete" yaml:"complete" toml:"complete"`
		Image     string   `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty"`
		Config    string   `json:"config,omitempty" yaml:"config,omitempty" toml:"config,omitempty"`
		SymbolMap string   `json:"symbol_map,omitempty" yaml:"symbol_map,omitempty" toml:"symbol_map,omitempty"`
		Source    string   `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
		Modules   string   `json:"modules,omitempty" yaml:"modules,omitempty" toml:"modules,omitempty"`
		Missing   []string `json:"missing,omitempty" yaml:"missing,omitempty" toml:"missing,omitempty"`
	}
)

func newListCommand(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed kernels, oldest first",
		Long: `List every kernel version found in the install, source and module
directories, oldest first. The index in the first column is the one accepted
by 'kernel-janitor remove'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.search().Execute()
			if err != nil {
				return app.fail(cmd, err)
			}
			if err := writeListing(app.stdout, records, output); err != nil {
				return app.fail(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json, yaml or toml")

	return cmd
}

// newListing converts records into their serializable form.
func newListing(records []*kernel.Record) kernelListing {
	listing := kernelListing{Kernels: make([]kernelEntry, 0, len(records))}
	for i, rec := range records {
		entry := kernelEntry{
			Index:    i,
			Version:  rec.Version().String(),
			Legacy:   rec.Version().IsLegacy(),
			Complete: rec.IsComplete(),
		}
		if p, ok := rec.ImagePath(); ok {
			entry.Image = p.String()
		}
		if p, ok := rec.ConfigPath(); ok {
			entry.Config = p.String()
		}
		if p, ok := rec.SymbolMapPath(); ok {
			entry.SymbolMap = p.String()
		}
		if p, ok := rec.SourcePath(); ok {
			entry.Source = p.String()
		}
		if p, ok := rec.ModulePath(); ok {
			entry.Modules = p.String()
		}
		for _, k := range rec.MissingKinds() {
			entry.Missing = append(entry.Missing, k.String())
		}
		listing.Kernels = append(listing.Kernels, entry)
	}
	return listing
}

// writeListing renders records in the requested format.
func writeListing(w io.Writer, records []*kernel.Record, format string) error {
	listing := newListing(records)

	switch format {
	case outputText:
		writeListingText(w, listing)
		return nil
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(listing); err != nil {
			return err
		}
		return enc.Close()
	case outputTOML:
		return toml.NewEncoder(w).Encode(listing)
	default:
		return fmt.Errorf("%w %q (valid: text, json, yaml, toml)", ErrInvalidOutputFormat, format)
	}
}

func writeListingText(w io.Writer, listing kernelListing) {
	if len(listing.Kernels) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No kernels found."))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render("Installed kernels"))
	fmt.Fprintln(w)
	for _, k := range listing.Kernels {
		status := SuccessStyle.Render("complete")
		if !k.Complete {
			status = WarningStyle.Render("missing " + strings.Join(k.Missing, ", "))
		}
		fmt.Fprintf(w, "%s  %s %s\n", indexStyle.Render(fmt.Sprint(k.Index)), versionColumnStyle.Render(k.Version), status)
		for _, line := range []struct{ label, path string }{
			{"image", k.Image},
			{"config", k.Config},
			{"symbol map", k.SymbolMap},
			{"source", k.Source},
			{"modules", k.Modules},
		} {
			if line.path == "" {
				continue
			}
			fmt.Fprintf(w, "        %-11s %s\n", line.label+":", SubtitleStyle.Render(line.path))
		}
	}
}
