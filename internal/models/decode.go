package models

import (
	"encoding/json"
	"errors"
)

// IsTypeMismatch reports whether err only says that some JSON value had an
// unexpected type. encoding/json still fills every other field in that case,
// so records are kept rather than dropped.
func IsTypeMismatch(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}
