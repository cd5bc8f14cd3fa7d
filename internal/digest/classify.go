package digest

import (
	"path/filepath"
	"strings"

	"github.com/TristanInSec/CodeDigest/internal/types"
)

// textExtensions lists recognized source, markup, and configuration
// extensions whose content is embedded in the digest.
var textExtensions = map[string]struct{}{
	".bash":       {},
	".bat":        {},
	".bib":        {},
	".c":          {},
	".cc":         {},
	".cfg":        {},
	".clj":        {},
	".conf":       {},
	".cpp":        {},
	".cs":         {},
	".css":        {},
	".csv":        {},
	".dart":       {},
	".dockerfile": {},
	".env":        {},
	".erl":        {},
	".ex":         {},
	".exs":        {},
	".go":         {},
	".gradle":     {},
	".h":          {},
	".hpp":        {},
	".hs":         {},
	".htm":        {},
	".html":       {},
	".ini":        {},
	".java":       {},
	".js":         {},
	".json":       {},
	".jsx":        {},
	".kt":         {},
	".log":        {},
	".lua":        {},
	".md":         {},
	".mod":        {},
	".php":        {},
	".pl":         {},
	".properties": {},
	".proto":      {},
	".ps1":        {},
	".py":         {},
	".r":          {},
	".rb":         {},
	".rs":         {},
	".rst":        {},
	".scala":      {},
	".sh":         {},
	".sql":        {},
	".sum":        {},
	".svg":        {},
	".swift":      {},
	".tex":        {},
	".tf":         {},
	".toml":       {},
	".ts":         {},
	".tsx":        {},
	".txt":        {},
	".vue":        {},
	".xml":        {},
	".yaml":       {},
	".yml":        {},
	".zsh":        {},
}

// binaryExtensions lists recognized non-text extensions: images, audio,
// video, archives, executables, fonts, and rich documents.
var binaryExtensions = map[string]struct{}{
	".7z":    {},
	".a":     {},
	".avi":   {},
	".bin":   {},
	".bmp":   {},
	".bz2":   {},
	".class": {},
	".dll":   {},
	".doc":   {},
	".docx":  {},
	".dylib": {},
	".exe":   {},
	".flac":  {},
	".gif":   {},
	".gz":    {},
	".ico":   {},
	".jar":   {},
	".jpeg":  {},
	".jpg":   {},
	".mkv":   {},
	".mov":   {},
	".mp3":   {},
	".mp4":   {},
	".o":     {},
	".ogg":   {},
	".otf":   {},
	".pdf":   {},
	".png":   {},
	".ppt":   {},
	".pptx":  {},
	".pyc":   {},
	".rar":   {},
	".so":    {},
	".tar":   {},
	".tgz":   {},
	".tiff":  {},
	".ttf":   {},
	".wav":   {},
	".webm":  {},
	".webp":  {},
	".whl":   {},
	".woff":  {},
	".woff2": {},
	".xls":   {},
	".xlsx":  {},
	".xz":    {},
	".zip":   {},
}

// Classify maps a file path to its category using only the lower-cased
// extension. It performs no I/O and has a defined output for every input:
// recognized text extensions yield types.CategoryText, recognized binary
// extensions yield types.CategoryBinary, everything else types.CategoryOther.
// The result is a hint for text candidates; the content loader confirms it
// by decoding.
func Classify(path string) string {
	extension := strings.ToLower(filepath.Ext(path))
	if _, isText := textExtensions[extension]; isText {
		return types.CategoryText
	}
	if _, isBinary := binaryExtensions[extension]; isBinary {
		return types.CategoryBinary
	}
	return types.CategoryOther
}
