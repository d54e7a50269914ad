package shared

import "fmt"

// ExternalID is an identifier assigned by the external ERP.
// It is always a positive integer; the zero value is invalid and can only
// be produced by bypassing NewExternalID.
type ExternalID int64

// NewExternalID validates and wraps an ERP-assigned identifier
func NewExternalID(id int64) (ExternalID, error) {
	if id <= 0 {
		return 0, NewDomainError("INVALID_ID", fmt.Sprintf("External ID must be positive, got %d", id))
	}
	return ExternalID(id), nil
}

// Int64 returns the underlying numeric value
func (id ExternalID) Int64() int64 {
	return int64(id)
}

// IsValid returns true if the ID carries a positive value
func (id ExternalID) IsValid() bool {
	return id > 0
}

// String implements fmt.Stringer
func (id ExternalID) String() string {
	return fmt.Sprintf("%d", int64(id))
}
