//go:build !linux

package watcher

// DetectFilesystemType classifies the filesystem containing path. Detection is
// only implemented on Linux.
func DetectFilesystemType(string) FilesystemType {
	return FSTypeUnknown
}
