package promptbuild

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultExportName is the file name offered for downloaded prompts.
const DefaultExportName = "prompt_builder.txt"

// WriteExport writes doc to path as UTF-8 text, creating parent directories.
func WriteExport(path, doc string) error {
	if path == "" {
		path = DefaultExportName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
