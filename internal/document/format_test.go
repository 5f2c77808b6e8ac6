package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 bytes", formatSize(0))
	assert.Equal(t, "512 bytes", formatSize(512))
	assert.Equal(t, "1023 bytes", formatSize(1023))
	assert.Equal(t, "1.0 KB", formatSize(1024))
	assert.Equal(t, "1.5 KB", formatSize(1536))
	assert.Equal(t, "1023.0 KB", formatSize(1047552))
	assert.Equal(t, "1.0 MB", formatSize(1048576))
	assert.Equal(t, "2.5 MB", formatSize(2621440))
}

func TestExtensionAndStem(t *testing.T) {
	assert.Equal(t, ".docx", extension("Report.docx"))
	assert.Equal(t, "Report", stem("Report.docx"))
	assert.Equal(t, "", extension("README"))
	assert.Equal(t, "README", stem("README"))
	assert.Equal(t, ".docx", extension("Annual Report (final).docx"))
}
