package consumer

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	minStatus = 100
	maxStatus = 599
)

var statusByName = func() map[string]int {
	names := make(map[string]int)
	for code := minStatus; code <= maxStatus; code++ {
		if text := http.StatusText(code); text != "" {
			names[normalizeStatusName(text)] = code
		}
	}
	return names
}()

func normalizeStatusName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '_' || r == '\'' {
			return -1
		}
		return r
	}, strings.ToLower(name))
}

// ParseStatus resolves a status name such as "Unauthorized", "Not Found" or "NotFound",
// or a numeric string, to its status code.
func ParseStatus(name string) (int, error) {
	if code, err := strconv.Atoi(strings.TrimSpace(name)); err == nil {
		return code, validateStatus(code)
	}
	code, ok := statusByName[normalizeStatusName(name)]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidArgument, "unknown status %q", name)
	}
	return code, nil
}

func validateStatus(code int) error {
	if code < minStatus || code > maxStatus {
		return errors.Wrapf(ErrInvalidArgument, "status code %d is out of range %d-%d", code, minStatus, maxStatus)
	}
	return nil
}
