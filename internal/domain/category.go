package domain

import (
	"fmt"
	"strings"

	errpkg "github.com/veranemoloko/route-uploader/internal/errors"
)

// Kind distinguishes categories that map to files from the composite one.
type Kind int

const (
	// KindConcrete categories map directly to file types.
	KindConcrete Kind = iota
	// KindComposite categories aggregate the concrete ones.
	KindComposite
)

// Category identifies one upload button.
type Category struct {
	name string
	kind Kind
}

// Known categories.
var (
	CategoryRoad   = Category{name: "road", kind: KindConcrete}
	CategoryDriver = Category{name: "driver", kind: KindConcrete}
	CategoryLogs   = Category{name: "logs", kind: KindConcrete}
	CategoryAll    = Category{name: "all", kind: KindComposite}
)

// ConcreteCategories lists the categories the composite aggregates, in display order.
var ConcreteCategories = []Category{CategoryRoad, CategoryDriver, CategoryLogs}

// AllCategories lists every category that carries a TaskState.
var AllCategories = []Category{CategoryRoad, CategoryDriver, CategoryLogs, CategoryAll}

// String returns the wire name of the category.
func (c Category) String() string { return c.name }

// Kind reports whether the category is concrete or composite.
func (c Category) Kind() Kind { return c.kind }

// IsComposite reports whether the category aggregates other categories.
func (c Category) IsComposite() bool { return c.kind == KindComposite }

// ParseCategory maps a wire name to a Category. "route" is accepted as an alias for "all".
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "road":
		return CategoryRoad, nil
	case "driver":
		return CategoryDriver, nil
	case "logs":
		return CategoryLogs, nil
	case "all", "route":
		return CategoryAll, nil
	}
	return Category{}, fmt.Errorf("%w: %q", errpkg.ErrUnknownCategory, s)
}

// MarshalText encodes the category as its wire name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.name), nil
}

// UnmarshalText decodes a wire name, accepting the same aliases as ParseCategory.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FileType identifies one kind of file recorded per segment.
type FileType string

const (
	FileTypeCameras  FileType = "cameras"
	FileTypeECameras FileType = "ecameras"
	FileTypeDCameras FileType = "dcameras"
	FileTypeLogs     FileType = "logs"
)

var fileNames = map[FileType]string{
	FileTypeCameras:  "fcamera.hevc",
	FileTypeECameras: "ecamera.hevc",
	FileTypeDCameras: "dcamera.hevc",
	FileTypeLogs:     "rlog.bz2",
}

// FileName returns the on-device file name uploaded for the file type.
func (f FileType) FileName() string {
	return fileNames[f]
}

var categoryFiles = map[Category][]FileType{
	CategoryRoad:   {FileTypeCameras, FileTypeECameras},
	CategoryDriver: {FileTypeDCameras},
	CategoryLogs:   {FileTypeLogs},
}

// FileTypes returns the file types a concrete category uploads.
// The composite category has no direct mapping and returns nil.
func (c Category) FileTypes() []FileType {
	files := categoryFiles[c]
	out := make([]FileType, len(files))
	copy(out, files)
	return out
}

// ResolveFileTypes returns the ordered, deduplicated union of file types for the given
// categories. Composite members contribute nothing of their own.
func ResolveFileTypes(categories []Category) []FileType {
	seen := make(map[FileType]struct{})
	out := []FileType{}
	for _, c := range categories {
		if c.IsComposite() {
			continue
		}
		for _, f := range categoryFiles[c] {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
