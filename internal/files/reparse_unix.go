//go:build !windows

package files

// isReparsePoint reports false on non-Windows platforms, which have no reparse points.
func isReparsePoint(path string) (bool, error) {
	return false, nil
}
