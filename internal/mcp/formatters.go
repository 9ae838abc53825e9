package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/pixellab-mcp/internal/assets"
	"github.com/bobmcallan/pixellab-mcp/internal/pixellab"
)

// rotationDirections lists character views in display order.
var rotationDirections = []string{
	"south", "south-east", "east", "north-east",
	"north", "north-west", "west", "south-west",
}

// pendingStatuses are remote job states that are not yet terminal.
var pendingStatuses = map[string]bool{
	"queued":      true,
	"pending":     true,
	"processing":  true,
	"in_progress": true,
	"running":     true,
	"started":     true,
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "**%s:** %s\n", label, value)
}

func formatSize(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

func formatNumber(v float64) string {
	return pixellab.Stringify(v)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// formatCharacter renders GET /characters/{id}.
func formatCharacter(requestedID string, body any, includePreview bool) string {
	var sb strings.Builder
	sb.WriteString("# Character Details\n\n")
	writeField(&sb, "ID", orDefault(pixellab.FirstString(body, pixellab.CharacterIDFields...), requestedID))
	writeField(&sb, "Name", pixellab.FirstString(body, pixellab.NameFields...))
	writeField(&sb, "Status", pixellab.FirstString(body, pixellab.StatusFields...))

	rotations, _ := pixellab.First(body, pixellab.RotationURLFields...)
	urls, _ := rotations.(map[string]any)
	if len(urls) == 0 {
		sb.WriteString("\nStill processing. Check again in a minute.\n")
		return sb.String()
	}

	sb.WriteString("\nCompleted and ready for download.\n")
	if includePreview {
		sb.WriteString("\n## Rotations\n\n")
		for _, dir := range rotationDirections {
			if u := pixellab.FirstString(urls, pixellab.Key(dir)); u != "" {
				fmt.Fprintf(&sb, "- %s: %s\n", strings.ToUpper(dir), u)
			}
		}
	}

	anims, _ := pixellab.First(body, pixellab.AnimationFields...)
	if list, ok := anims.([]any); ok && len(list) > 0 {
		fmt.Fprintf(&sb, "\n## Animations (%d)\n\n", len(list))
		for i, a := range list {
			name := orDefault(pixellab.FirstString(a, pixellab.NameFields...), fmt.Sprintf("Animation %d", i+1))
			status := orDefault(pixellab.FirstString(a, pixellab.StatusFields...), "unknown")
			fmt.Fprintf(&sb, "- %s: %s\n", name, status)
		}
	}
	return sb.String()
}

// characterList extracts the character array from either a bare array or a
// wrapped object.
func characterList(body any) []any {
	if list, ok := body.([]any); ok {
		return list
	}
	v, _ := pixellab.First(body, pixellab.CharacterListFields...)
	list, _ := v.([]any)
	return list
}

func formatCharacterList(body any) string {
	characters := characterList(body)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Character Library (%d)\n\n", len(characters))
	if len(characters) == 0 {
		sb.WriteString("No characters found. Create one with create_character.\n")
		return sb.String()
	}

	sb.WriteString("| # | Name | ID | Status |\n")
	sb.WriteString("|---|------|----|--------|\n")
	for i, c := range characters {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n",
			i+1,
			orDefault(pixellab.FirstString(c, pixellab.NameFields...), "Unnamed"),
			orDefault(pixellab.FirstString(c, pixellab.CharacterIDFields...), "-"),
			orDefault(pixellab.FirstString(c, pixellab.StatusFields...), "unknown"),
		)
	}
	sb.WriteString("\nUse get_character for details and downloads.\n")
	return sb.String()
}

func formatBackgroundJob(jobID string, body any) string {
	status := pixellab.FirstString(body, pixellab.StatusFields...)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Job Status: %s\n\n", strings.ToUpper(orDefault(status, "unknown")))
	writeField(&sb, "Job ID", orDefault(pixellab.FirstString(body, pixellab.JobIDFields...), jobID))
	writeField(&sb, "Character ID", pixellab.FirstString(body, pixellab.CharacterIDFields[0]))

	switch {
	case status == "completed":
		sb.WriteString("\nCompleted.\n")
		writeField(&sb, "Download", pixellab.FirstString(body, pixellab.DownloadURLFields...))
	case status == "failed":
		sb.WriteString("\nThe job failed.\n")
		writeField(&sb, "Error", pixellab.FirstString(body, pixellab.JobErrorFields...))
	case pendingStatuses[status]:
		sb.WriteString("\nStill processing.\n")
	}
	return sb.String()
}

// formatResourceStatus renders tileset and isometric tile status polls.
// A 202 or a non-terminal status means the resource is still generating.
func formatResourceStatus(kind, id string, resp *pixellab.Response, body any) string {
	status := pixellab.FirstString(body, pixellab.StatusFields...)

	var sb strings.Builder
	if resp.StatusCode == http.StatusAccepted || pendingStatuses[status] {
		fmt.Fprintf(&sb, "# %s Still Processing\n\n", kind)
		writeField(&sb, "ID", id)
		writeField(&sb, "Status", status)
		writeField(&sb, "Message", pixellab.FirstString(body, pixellab.MessageFields...))
		sb.WriteString("\nCheck back in a few minutes.\n")
		return sb.String()
	}
	if status == "failed" {
		fmt.Fprintf(&sb, "# %s Failed\n\n", kind)
		writeField(&sb, "ID", id)
		writeField(&sb, "Error", pixellab.FirstString(body, pixellab.JobErrorFields...))
		return sb.String()
	}

	fmt.Fprintf(&sb, "# %s Completed\n\n", kind)
	writeField(&sb, "ID", id)
	writeField(&sb, "Status", orDefault(status, "completed"))
	writeField(&sb, "Download", pixellab.FirstString(body, pixellab.DownloadURLFields...))
	return sb.String()
}

// formatKeypoints accepts [x, y] pairs and {x, y, label} objects.
func formatKeypoints(points []any) string {
	var sb strings.Builder
	sb.WriteString("# Skeleton Estimation Completed\n\n")
	fmt.Fprintf(&sb, "**Keypoints:** %d\n", len(points))
	if len(points) > 0 {
		sb.WriteString("\n| # | Label | X | Y |\n")
		sb.WriteString("|---|-------|---|---|\n")
	}
	for i, p := range points {
		var x, y float64
		var okX, okY bool
		label := "-"
		switch pt := p.(type) {
		case []any:
			if len(pt) >= 2 {
				x, okX = pt[0].(float64)
				y, okY = pt[1].(float64)
			}
		case map[string]any:
			x, okX = pt["x"].(float64)
			y, okY = pt["y"].(float64)
			label = orDefault(pixellab.FirstString(pt, pixellab.Key("label")), "-")
		}
		if !okX || !okY {
			fmt.Fprintf(&sb, "| %d | %s | ? | ? |\n", i+1, label)
			continue
		}
		fmt.Fprintf(&sb, "| %d | %s | %.2f | %.2f |\n", i+1, label, x, y)
	}
	sb.WriteString("\nPass these keypoints to animate_with_skeleton.\n")
	return sb.String()
}

// formatBalance returns ok=false when no known balance field is present.
func formatBalance(body any) (string, bool) {
	var sb strings.Builder
	sb.WriteString("# Account Balance\n\n")
	found := false
	for _, f := range []struct {
		label  string
		fields []pixellab.Accessor
	}{
		{"Credits", pixellab.CreditsFields},
		{"Usage", pixellab.UsageFields},
		{"Limits", pixellab.LimitsFields},
	} {
		v, ok := pixellab.First(body, f.fields...)
		if !ok {
			continue
		}
		found = true
		switch v.(type) {
		case map[string]any, []any:
			pretty, _ := json.MarshalIndent(v, "", "  ")
			fmt.Fprintf(&sb, "**%s:**\n```json\n%s\n```\n", f.label, pretty)
		default:
			writeField(&sb, f.label, pixellab.Stringify(v))
		}
	}
	return sb.String(), found
}

// formatSavedImage appends the save outcome to a generation summary.
func formatSavedImage(sb *strings.Builder, saved *assets.SavedImage) {
	sb.WriteString("\n## Saved\n\n")
	writeField(sb, "File", saved.Path)
	writeField(sb, "Bytes", fmt.Sprintf("%d", saved.Bytes))
	if saved.Width > 0 {
		writeField(sb, "Dimensions", formatSize(saved.Width, saved.Height))
		writeField(sb, "Colors", fmt.Sprintf("%d", saved.Colors))
		writeField(sb, "Palette", strings.Join(saved.Palette, " "))
	}
	writeField(sb, "Preview", saved.PreviewPath)
}
