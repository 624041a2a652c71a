// Package archive provides the storage backends for catalog exports.
package archive

import (
	"fmt"
	"strings"
)

// checkName rejects object names that could escape the archive root.
func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid export name %q", name)
	}
	return nil
}
