//go:build !unix

package paths

// CheckWritable is a no-op where access(2) is unavailable
func CheckWritable(string) error {
	return nil
}
