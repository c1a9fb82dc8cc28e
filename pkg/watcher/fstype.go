package watcher

// FilesystemType is a coarse classification of the filesystem a watched file
// lives on. fsnotify events are unreliable on network mounts, so those are
// polled instead.
type FilesystemType int

const (
	FSTypeUnknown FilesystemType = iota
	FSTypeLocal
	FSTypeNFS
	FSTypeSMB
	FSTypeFUSE
)

func (t FilesystemType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeNFS:
		return "nfs"
	case FSTypeSMB:
		return "smb"
	case FSTypeFUSE:
		return "fuse"
	default:
		return "unknown"
	}
}

// Remote reports whether the filesystem is a network or userspace mount.
func (t FilesystemType) Remote() bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeFUSE:
		return true
	default:
		return false
	}
}

// detectFilesystemTypeFunc is swapped out in tests.
var detectFilesystemTypeFunc = DetectFilesystemType
