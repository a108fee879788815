package httpx

import (
	"net/http"

	"github.com/google/uuid"
)

// PathUUID returns the named path value when it is a well-formed UUID.
func PathUUID(r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return v, true
}
