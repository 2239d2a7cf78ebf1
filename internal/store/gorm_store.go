package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kvRow is the single physical table backing every logical table. The
// attribute map is stored as schemaless JSON; logical tables are
// partitioned by the table_name column.
type kvRow struct {
	ID         uint           `gorm:"primaryKey"`
	Table      string         `gorm:"column:table_name;type:varchar(255);not null;uniqueIndex:idx_kv_table_key,priority:1"`
	ItemKey    string         `gorm:"column:item_key;type:varchar(255);not null;uniqueIndex:idx_kv_table_key,priority:2"`
	Attributes datatypes.JSON `gorm:"not null"`
}

// TableName specifies the table name for the kvRow model
func (kvRow) TableName() string {
	return "kv_items"
}

// GormStore is the Postgres-backed KeyValueStore. Scans select every row
// of the logical table; there are no per-attribute indexes, matching the
// contract's scan-based semantics.
type GormStore struct {
	db     *gorm.DB
	schema Schema
}

// NewGormStore creates a store over db and migrates the backing table.
func NewGormStore(db *gorm.DB, schema Schema) (*GormStore, error) {
	if err := db.AutoMigrate(&kvRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_items: %w", err)
	}
	return &GormStore{db: db, schema: schema}, nil
}

func decodeRow(row *kvRow) (Item, error) {
	var item Item
	if err := json.Unmarshal(row.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to decode item %s/%s: %w", row.Table, row.ItemKey, err)
	}
	return item, nil
}

// Get implements KeyValueStore.
func (s *GormStore) Get(table string, key Value) (Item, error) {
	var row kvRow
	err := s.db.Where("table_name = ? AND item_key = ?", table, key.Raw()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeRow(&row)
}

// Put implements KeyValueStore.
func (s *GormStore) Put(table string, item Item, cond PutCondition) error {
	key, err := s.schema.itemKey(table, item)
	if err != nil {
		return err
	}

	attrs, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode item: %w", err)
	}

	row := kvRow{
		Table:      table,
		ItemKey:    key,
		Attributes: attrs,
	}

	if cond == IfNotExists {
		result := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "table_name"}, {Name: "item_key"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemExists
		}
		return nil
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "table_name"}, {Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"attributes"}),
	}).Create(&row).Error
}

// Scan implements KeyValueStore.
func (s *GormStore) Scan(table string) ([]Item, error) {
	var rows []kvRow
	if err := s.db.Where("table_name = ?", table).Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for i := range rows {
		item, err := decodeRow(&rows[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// FilteredScan implements KeyValueStore. The filter is applied in
// process over a full scan, not pushed down to SQL.
func (s *GormStore) FilteredScan(table, column string, value Value) ([]Item, error) {
	items, err := s.Scan(table)
	if err != nil {
		return nil, err
	}

	var matched []Item
	for _, item := range items {
		if v, ok := item[column]; ok && v.Equal(value) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// NextID implements KeyValueStore.
func (s *GormStore) NextID(table string) (int, error) {
	items, err := s.Scan(table)
	if err != nil {
		return 0, err
	}
	return maxIDPlusOne(items)
}

// Now implements KeyValueStore.
func (s *GormStore) Now() string {
	return formatNow()
}
