package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/wherewatch/wherewatch/internal/catalog/types"
	"github.com/wherewatch/wherewatch/internal/geo"
	"github.com/wherewatch/wherewatch/internal/locale"
)

type titlePage struct {
	Title   *types.Title   `json:"title" yaml:"title"`
	Country locale.Country `json:"country" yaml:"country"`
	Sources []types.Source `json:"sources" yaml:"sources"`
}

type sourceList struct {
	Country locale.Country `json:"country" yaml:"country"`
	Sources []types.Source `json:"sources" yaml:"sources"`
}

var renderers = map[string]func(io.Writer, interface{}) error{
	"text": renderText,
	"json": renderJSON,
	"yaml": renderYAML,
}

func (a *app) render(v interface{}) error {
	return renderers[a.opts.format](a.out, v)
}

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderYAML writes one document per call, so a refined answer follows the
// first as a second document.
func renderYAML(w io.Writer, v interface{}) error {
	if _, err := io.WriteString(w, "---\n"); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func renderText(w io.Writer, v interface{}) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch v := v.(type) {
	case *types.SearchResult:
		if len(v.Titles) == 0 {
			fmt.Fprintln(tw, "No results.")
			break
		}
		fmt.Fprintln(tw, "ID\tKIND\tYEAR\tRATING\tNAME")
		for _, t := range v.Titles {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Kind, optInt(t.Year), optRating(t.Rating), t.Name)
		}

	case titlePage:
		writeTitle(tw, v.Title)
		fmt.Fprintln(tw)
		writeSources(tw, v.Country, v.Sources)

	case sourceList:
		writeSources(tw, v.Country, v.Sources)

	case geo.Detection:
		fmt.Fprintf(tw, "Country:\t%s\n", v.Country)
		fmt.Fprintf(tw, "Language:\t%s\n", v.Language)
		fmt.Fprintf(tw, "Method:\t%s\n", v.Method)

	default:
		return fmt.Errorf("no text rendering for %T", v)
	}

	return tw.Flush()
}

func writeTitle(w io.Writer, t *types.Title) {
	name := t.Name
	if t.AltName != "" && t.AltName != t.Name {
		name = fmt.Sprintf("%s (%s)", t.Name, t.AltName)
	}
	fmt.Fprintf(w, "Title:\t%s\n", name)
	fmt.Fprintf(w, "Kind:\t%s\n", t.Kind)
	fmt.Fprintf(w, "Year:\t%s\n", optInt(t.Year))
	fmt.Fprintf(w, "Rating:\t%s\n", optRating(t.Rating))
	if t.Runtime != nil {
		fmt.Fprintf(w, "Runtime:\t%d min\n", *t.Runtime)
	}
	if len(t.Genres) > 0 {
		fmt.Fprintf(w, "Genres:\t%s\n", strings.Join(t.Genres, ", "))
	}
	if t.Overview != "" {
		fmt.Fprintf(w, "Overview:\t%s\n", t.Overview)
	}
}

func writeSources(w io.Writer, country locale.Country, sources []types.Source) {
	if len(sources) == 0 {
		fmt.Fprintf(w, "Not available to stream, rent or buy in %s.\n", country)
		return
	}
	fmt.Fprintf(w, "Where to watch in %s:\n", country)
	for _, s := range sources {
		fmt.Fprintf(w, "  %s\t%s\n", s.Kind, s.Name)
	}
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func optRating(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
