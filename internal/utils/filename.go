package utils

import (
	"path/filepath"
	"strings"
	"time"
)

// filenameTimestampLayout is the layout inserted into output filenames.
const filenameTimestampLayout = "200601021504"

// TimestampedPath inserts a timestamp between the base name and the extension
// of the provided output path, e.g. digest.xml -> digest_202601021504.xml.
func TimestampedPath(outputPath string, now time.Time) string {
	extension := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, extension)
	return base + "_" + now.Format(filenameTimestampLayout) + extension
}
