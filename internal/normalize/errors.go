package normalize

import "errors"

// NoDataError reports that a structurally required section of the provider
// payload is absent (failed request, missing results array). It is distinct
// from an empty-but-successful result set: zero matches produce an empty
// table, not a NoDataError.
type NoDataError struct {
	Reason string
}

func (e *NoDataError) Error() string {
	return "no data: " + e.Reason
}

// IsNoData reports whether err is (or wraps) a NoDataError.
func IsNoData(err error) bool {
	var nde *NoDataError
	return errors.As(err, &nde)
}
