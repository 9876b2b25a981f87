package utils

import (
	"fmt"
	"net/http"
)

// ------------------------------------------------------------------------
// PlatformType enumerates how the client is connecting.
// ------------------------------------------------------------------------
type PlatformType int

const (
	PlatformWeb PlatformType = iota
	PlatformAndroid
	PlatformIOS
)

func (p PlatformType) String() string {
	switch p {
	case PlatformWeb:
		return "web"
	case PlatformAndroid:
		return "android"
	case PlatformIOS:
		return "ios"
	default:
		return "unknown"
	}
}

// ParsePlatform converts strings ("web", "android", "ios") to the enum.
func ParsePlatform(s string) (PlatformType, error) {
	switch s {
	case "web":
		return PlatformWeb, nil
	case "android":
		return PlatformAndroid, nil
	case "ios":
		return PlatformIOS, nil
	default:
		return PlatformWeb, fmt.Errorf("unknown platform %q", s)
	}
}

// GetClientPlatform reads the X-Platform header; absent or unknown means web.
func GetClientPlatform(r *http.Request) PlatformType {
	p, err := ParsePlatform(r.Header.Get("X-Platform"))
	if err != nil {
		return PlatformWeb
	}
	return p
}
