package document

import (
	"fmt"
	"path"
	"strings"
)

// detailTimeFormat matches the file manager widget's detail pane expectations.
const detailTimeFormat = "1/2/2006 3:04:05 PM"

// formatSize renders a byte count the way the details pane shows it: plain
// bytes below 1 KB, one decimal of KB below 1 MB, one decimal of MB above.
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1_048_576:
		return fmt.Sprintf("%.1f MB", float64(bytes)/1_048_576.0)
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024.0)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// extension returns the filename extension including the dot, "" when absent.
func extension(name string) string {
	return path.Ext(name)
}

// stem returns the filename without its extension.
func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
