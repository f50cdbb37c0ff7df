package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidPayload indicates the submitted payload is not valid JSON.
	ErrInvalidPayload = errors.New("payload must be a valid JSON document")
)

// CodePrefix is the literal prefix every generated unique code carries.
const CodePrefix = "DATA-"

// CodeFor renders the canonical unique code for a running number.
// Numbers are zero-padded to six digits; beyond 999999 the code
// simply grows wider, the sequence itself never wraps.
func CodeFor(runningNumber int64) string {
	return fmt.Sprintf("%s%06d", CodePrefix, runningNumber)
}

// DataRecord is one allocated entry in the gap-free sequence.
type DataRecord struct {
	ID            string
	UniqueCode    string
	RunningNumber int64
	Payload       json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AllocationRequest carries the payload to attach to the next
// allocated record. An empty payload is allowed and stored as null.
type AllocationRequest struct {
	Payload json.RawMessage
}

// Validate rejects payloads that are present but not valid JSON.
func (r AllocationRequest) Validate() error {
	if len(r.Payload) == 0 {
		return nil
	}
	if !json.Valid(r.Payload) {
		return ErrInvalidPayload
	}
	return nil
}
