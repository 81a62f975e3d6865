package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/wsltoolbar/pkg/manifest"
	"github.com/arthur-debert/wsltoolbar/pkg/pipeline"
)

// Message formats
const (
	msgInstalled   = "Installed %d of %d shortcuts"
	msgPlanned     = "Dry run: %d of %d shortcuts would be installed, nothing was written"
	msgCounts      = "%d succeeded, %d without icon, %d failed"
	msgNoEntries   = "No launchable entries in the menu."
	msgLastRun     = "Last run %s (%s) for %s"
	msgInstallDir  = "Shortcuts: %s"
	msgEntryFailed = " (%s: %s)"
)

// RenderSummary prints the outcome of an install run
func RenderSummary(w io.Writer, s pipeline.Summary, f Format) error {
	entries := s.Entries()
	switch f {
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(entries)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(map[string]interface{}{"entry": entries})
	}

	if s.Attempted == 0 {
		_, err := fmt.Fprintln(w, msgNoEntries)
		return err
	}

	var b strings.Builder
	header := fmt.Sprintf(msgInstalled, s.Succeeded, s.Attempted)
	if s.DryRun {
		header = fmt.Sprintf(msgPlanned, s.Succeeded, s.Attempted)
	}
	b.WriteString(titleStyle.Sprint(header) + "\n\n")
	for _, e := range entries {
		b.WriteString(entryLine(e) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Sprintf(msgCounts, s.Succeeded, s.Iconless, s.Failed) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderManifest prints a stored manifest for the status command
func RenderManifest(w io.Writer, m *manifest.Manifest, f Format) error {
	switch f {
	case FormatYAML:
		return yaml.NewEncoder(w).Encode(m)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Sprintf(msgLastRun, m.GeneratedAt.Local().Format("2006-01-02 15:04"), m.RunID, m.Target) + "\n")
	b.WriteString(mutedStyle.Sprintf(msgInstallDir, m.InstallDirectory) + "\n\n")

	data := pterm.TableData{{"Entry", "Status", "Detail"}}
	for _, e := range m.Entries {
		detail := e.Link
		if e.Status == manifest.StatusFailed {
			detail = e.Stage + ": " + e.Error
		}
		data = append(data, []string{e.Path, StatusStyle(e.Status).Sprint(e.Status), detail})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	b.WriteString(table + "\n\n")
	b.WriteString(mutedStyle.Sprintf(msgCounts, m.Succeeded, m.Iconless, m.Failed) + "\n")
	_, err = io.WriteString(w, b.String())
	return err
}

func entryLine(e manifest.Entry) string {
	style := StatusStyle(e.Status)
	line := "  " + style.Sprint(StatusSymbol(e.Status)) + " " + e.Path
	if e.Status == manifest.StatusFailed {
		line += style.Sprintf(msgEntryFailed, e.Stage, e.Error)
	}
	return line
}
