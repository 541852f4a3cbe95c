package constant

const (
	MaxUploadBytes = 10 * 1024 * 1024

	DefaultMimeType = "application/octet-stream"
)

var AllowedFileExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
	"txt":  {},
	"zip":  {},
	"rar":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
}
