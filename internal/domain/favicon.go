package domain

import "fmt"

// FaviconStatus is the state shown by the window's status indicator.
type FaviconStatus int

const (
	FaviconPlay FaviconStatus = iota + 1
	FaviconStop
)

// FaviconStatuses lists every declared status.
func FaviconStatuses() []FaviconStatus {
	return []FaviconStatus{FaviconPlay, FaviconStop}
}

// ParseFaviconStatus maps the wire name ("play" or "stop") to a status.
func ParseFaviconStatus(s string) (FaviconStatus, error) {
	switch s {
	case "play":
		return FaviconPlay, nil
	case "stop":
		return FaviconStop, nil
	}
	return 0, fmt.Errorf("unknown favicon status %q", s)
}

func (s FaviconStatus) String() string {
	switch s {
	case FaviconPlay:
		return "play"
	case FaviconStop:
		return "stop"
	}
	return fmt.Sprintf("FaviconStatus(%d)", int(s))
}
