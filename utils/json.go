package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ParseJSON parses JSON request body. An empty body decodes as {}.
func ParseJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
