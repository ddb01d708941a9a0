package trash

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/babarot/wardbin/internal/storage"
	"github.com/k0kubun/pp/v3"
)

// Entry is one record in the trash ledger
type Entry struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"type"`
	OriginalID string         `json:"originalId,omitempty"`
	Name       string         `json:"name"`
	Details    string         `json:"details"`
	DeletedBy  string         `json:"deletedBy"`
	DeletedAt  time.Time      `json:"deletedAt"`
	Data       storage.Record `json:"data"`
}

// EntryID returns the ledger id of a record of kind k
func EntryID(k Kind, originalID string) string {
	return string(k) + "_" + originalID
}

func (e Entry) GetName() string {
	return e.Name
}

func (e Entry) GetDeletedAt() time.Time {
	return e.DeletedAt
}

// String dumps the entry for debugging
func (e Entry) String() string {
	printer := pp.New()
	printer.SetColoringEnabled(false)
	return printer.Sprint(e)
}

// Copy returns the entry with a deep copy of its payload
func (e Entry) Copy() Entry {
	e.Data = e.Data.Clone()
	return e
}

func (e Entry) record() (storage.Record, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode entry %s: %w", e.ID, err)
	}
	var r storage.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("encode entry %s: %w", e.ID, err)
	}
	return r, nil
}

func entryFromRecord(r storage.Record) (Entry, error) {
	var e Entry
	data, err := json.Marshal(r)
	if err != nil {
		return e, fmt.Errorf("decode entry: %w", err)
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("decode entry %s: %w", r.String("id"), err)
	}
	if e.OriginalID == "" {
		e.OriginalID = strings.TrimPrefix(e.ID, string(e.Kind)+"_")
	}
	if e.Data == nil {
		e.Data = storage.Record{}
	}
	return e, nil
}
