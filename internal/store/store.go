// Package store provides the key-value storage layer shared by every
// service. Tables are named collections of string-keyed, typed attribute
// maps; lookups other than primary-key gets are full scans, which callers
// rely on (membership checks, id assignment). Backings must preserve the
// scan semantics even when they could answer with an index.
package store

import (
	"errors"
	"time"
)

// PutCondition controls whether a Put may replace an existing item with
// the same primary key.
type PutCondition string

const (
	// IfNotExists rejects the write when an item with the same primary
	// key already exists. This is the default used for record creation.
	IfNotExists PutCondition = "attribute_not_exists"

	// Overwrite replaces any existing item, used for full-record
	// rewrites such as conversation-history updates.
	Overwrite PutCondition = ""
)

// ErrItemExists is returned by Put with IfNotExists when the primary key
// is already taken.
var ErrItemExists = errors.New("item already exists")

// KeyValueStore is the storage contract. FilteredScan returns nil (not an
// empty slice) when nothing matches, and Scan iteration order is
// unspecified.
type KeyValueStore interface {
	// Get fetches the item whose primary-key attribute equals key, or
	// nil when absent.
	Get(table string, key Value) (Item, error)

	// Put writes an item subject to cond. The item must carry the
	// table's primary-key attribute.
	Put(table string, item Item, cond PutCondition) error

	// Scan returns every item in the table.
	Scan(table string) ([]Item, error)

	// FilteredScan returns the items whose column attribute equals
	// value, or nil when none match.
	FilteredScan(table, column string, value Value) ([]Item, error)

	// NextID returns max(existing "id" attributes)+1, or 1 for an empty
	// table. The scan-then-write gap is not guarded; concurrent callers
	// can observe the same id.
	NextID(table string) (int, error)

	// Now returns the current timestamp in the store's string format.
	Now() string
}

// TimeFormat is the timestamp layout used for date_created and
// expiration_date attributes.
const TimeFormat = "2006-01-02 15:04:05"

func formatNow() string {
	return time.Now().Format(TimeFormat)
}

func maxIDPlusOne(items []Item) (int, error) {
	if len(items) == 0 {
		return 1, nil
	}
	max := 0
	for _, item := range items {
		v, ok := item["id"]
		if !ok {
			continue
		}
		id, err := v.Int()
		if err != nil {
			return 0, err
		}
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}
