package models

import (
	"fmt"

	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
)

// APIKeyRecord represents an issued API key for a user. The expiration
// date is recorded at issuance but is not consulted when a key is
// verified.
type APIKeyRecord struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id"`
	APIKey         string `json:"api_key"`
	DateCreated    string `json:"date_created"`
	ExpirationDate string `json:"expiration_date"`
	IsActive       bool   `json:"is_active"`
}

// Item converts the record to its stored attribute map.
func (r *APIKeyRecord) Item() store.Item {
	return store.Item{
		"id":              store.Number(r.ID),
		"user_id":         store.Number(r.UserID),
		"api_key":         store.String(r.APIKey),
		"date_created":    store.String(r.DateCreated),
		"expiration_date": store.String(r.ExpirationDate),
		"is_active":       store.Boolean(r.IsActive),
	}
}

// APIKeyRecordFromItem parses a stored attribute map into a record.
func APIKeyRecordFromItem(item store.Item) (*APIKeyRecord, error) {
	id, err := item["id"].Int()
	if err != nil {
		return nil, fmt.Errorf("invalid id attribute: %w", err)
	}
	userID, err := item["user_id"].Int()
	if err != nil {
		return nil, fmt.Errorf("invalid user_id attribute: %w", err)
	}
	return &APIKeyRecord{
		ID:             id,
		UserID:         userID,
		APIKey:         item["api_key"].S,
		DateCreated:    item["date_created"].S,
		ExpirationDate: item["expiration_date"].S,
		IsActive:       item["is_active"].Bool,
	}, nil
}
