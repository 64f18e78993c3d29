package pipeline

// ValidateHeader checks actual against the expected column names, in order.
func ValidateHeader(expected, actual []string) error {
	if len(actual) != len(expected) {
		return &HeaderFormatError{Expected: expected, Actual: actual}
	}
	for i := range expected {
		if actual[i] != expected[i] {
			return &HeaderFormatError{Expected: expected, Actual: actual, Column: i + 1}
		}
	}
	return nil
}
