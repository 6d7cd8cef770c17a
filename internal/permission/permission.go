package permission

import "fmt"

// Permission is an ordered capability level. Comparisons are numeric:
// a ceiling authorizes a requested level iff ceiling >= requested.
type Permission int

const (
	None Permission = iota
	Read
	ReadWrite
	ReadWritePublish
	Full
)

// Authorizes returns true if this level covers the requested level.
func (p Permission) Authorizes(requested Permission) bool {
	return p >= requested
}

func (p Permission) String() string {
	switch p {
	case None:
		return "none"
	case Read:
		return "read"
	case ReadWrite:
		return "readwrite"
	case ReadWritePublish:
		return "readwritepublish"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Parse maps a config string to a Permission. Fail-closed: unknown
// strings yield None and an error.
func Parse(s string) (Permission, error) {
	switch s {
	case "none":
		return None, nil
	case "read":
		return Read, nil
	case "readwrite":
		return ReadWrite, nil
	case "readwritepublish":
		return ReadWritePublish, nil
	case "full":
		return Full, nil
	default:
		return None, fmt.Errorf("unknown permission %q", s)
	}
}
