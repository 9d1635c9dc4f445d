// Package attachment classifies attachment payloads into the fixed set of
// content types a report generator knows how to render.
package attachment

import "strings"

// Kind is a closed enumeration of attachment content types.
type Kind int

const (
	KindText Kind = iota
	KindHTML
	KindXML
	KindJSON
	KindYAML
	KindCSV
	KindTSV
	KindURIList
	KindPNG
	KindJPEG
	KindGIF
	KindBMP
	KindTIFF
	KindSVG
	KindImageDiff
	KindMP4
	KindOGG
	KindWebM
)

type kindInfo struct {
	name      string
	mimeType  string
	extension string
}

var kinds = map[Kind]kindInfo{
	KindText:      {"text", "text/plain", "txt"},
	KindHTML:      {"html", "text/html", "html"},
	KindXML:       {"xml", "application/xml", "xml"},
	KindJSON:      {"json", "application/json", "json"},
	KindYAML:      {"yaml", "application/yaml", "yaml"},
	KindCSV:       {"csv", "text/csv", "csv"},
	KindTSV:       {"tsv", "text/tab-separated-values", "tsv"},
	KindURIList:   {"uri-list", "text/uri-list", "uri"},
	KindPNG:       {"png", "image/png", "png"},
	KindJPEG:      {"jpeg", "image/jpeg", "jpg"},
	KindGIF:       {"gif", "image/gif", "gif"},
	KindBMP:       {"bmp", "image/bmp", "bmp"},
	KindTIFF:      {"tiff", "image/tiff", "tiff"},
	KindSVG:       {"svg", "image/svg+xml", "svg"},
	KindImageDiff: {"image-diff", "application/vnd.allure.image.diff", "diff.png"},
	KindMP4:       {"mp4", "video/mp4", "mp4"},
	KindOGG:       {"ogg", "video/ogg", "ogg"},
	KindWebM:      {"webm", "video/webm", "webm"},
}

// extra spellings accepted by KindFromExtension
var extensionAliases = map[string]Kind{
	"text": KindText,
	"log":  KindText,
	"htm":  KindHTML,
	"yml":  KindYAML,
	"jpeg": KindJPEG,
	"tif":  KindTIFF,
}

// MIMEType returns the fixed MIME type of the kind. Unknown kinds report text/plain.
func (k Kind) MIMEType() string {
	if info, ok := kinds[k]; ok {
		return info.mimeType
	}
	return kinds[KindText].mimeType
}

// Extension returns the fixed file extension of the kind, without a leading dot.
func (k Kind) Extension() string {
	if info, ok := kinds[k]; ok {
		return info.extension
	}
	return kinds[KindText].extension
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return "unknown"
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := KindText; k <= KindWebM; k++ {
		out = append(out, k)
	}
	return out
}

// KindFromExtension looks up the kind whose extension matches ext.
// Matching is a table lookup on the name only; content is never inspected.
func KindFromExtension(ext string) (Kind, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return KindText, false
	}
	for _, k := range Kinds() {
		if kinds[k].extension == ext {
			return k, true
		}
	}
	if k, ok := extensionAliases[ext]; ok {
		return k, true
	}
	return KindText, false
}

// KindFromPath classifies a file name by its extension, honouring the
// two-part "diff.png" extension of image diffs.
func KindFromPath(path string) (Kind, bool) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, "."+kinds[KindImageDiff].extension) {
		return KindImageDiff, true
	}
	idx := strings.LastIndex(lower, ".")
	if idx < 0 || strings.ContainsAny(lower[idx:], `/\`) {
		return KindText, false
	}
	return KindFromExtension(lower[idx+1:])
}

// ParseKind resolves a kind from its name ("svg", "json", ...) or extension.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds() {
		if kinds[k].name == name {
			return k, true
		}
	}
	return KindFromExtension(name)
}
