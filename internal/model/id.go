package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// RecordID identifies a transaction either by its server-assigned numeric id
// or by a locally generated placeholder. Only synced records may be sent back
// to the server for update or delete.
type RecordID struct {
	serverID int64
	tempID   string
}

// SyncedID returns an id for a server-confirmed record.
func SyncedID(n int64) RecordID {
	return RecordID{serverID: n}
}

// LocalID returns a fresh placeholder id for a record the server has not
// acknowledged yet.
func LocalID() RecordID {
	return RecordID{tempID: "local-" + uuid.NewString()}
}

// ParseRecordID interprets a stored id string: numeric means synced,
// anything else is treated as a local placeholder. An empty string yields
// the zero id, which is never synced.
func ParseRecordID(s string) RecordID {
	if s == "" {
		return RecordID{}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return RecordID{serverID: n}
	}
	return RecordID{tempID: s}
}

// Synced returns the server id and true when the record is server-confirmed.
// The zero id counts as unsynced; the backend never assigns id 0.
func (r RecordID) Synced() (int64, bool) {
	if r.tempID != "" || r.IsZero() {
		return 0, false
	}
	return r.serverID, true
}

// IsZero reports whether the id is unset.
func (r RecordID) IsZero() bool {
	return r.tempID == "" && r.serverID == 0
}

func (r RecordID) String() string {
	if r.tempID != "" {
		return r.tempID
	}
	return strconv.FormatInt(r.serverID, 10)
}

// MarshalText makes RecordID usable as a JSON value and map key.
func (r RecordID) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the textual form produced by MarshalText.
func (r *RecordID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("empty record id")
	}
	*r = ParseRecordID(string(b))
	return nil
}
