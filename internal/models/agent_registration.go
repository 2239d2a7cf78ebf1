package models

import (
	"fmt"

	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
)

// AgentRegistration represents a user's named multi-agent. At most one
// registration exists per (user_id, agent_main_name) pair; registrations
// are never updated or deleted once written.
type AgentRegistration struct {
	ID            int    `json:"id"`
	UserID        int    `json:"user_id"`
	AgentMainName string `json:"agent_main_name"`
	AgentList     string `json:"agent_list"`
	DateCreated   string `json:"date_created"`
	IsActive      bool   `json:"is_active"`
}

// Item converts the registration to its stored attribute map.
func (r *AgentRegistration) Item() store.Item {
	return store.Item{
		"id":              store.Number(r.ID),
		"user_id":         store.Number(r.UserID),
		"agent_main_name": store.String(r.AgentMainName),
		"agent_list":      store.String(r.AgentList),
		"date_created":    store.String(r.DateCreated),
		"is_active":       store.Boolean(r.IsActive),
	}
}

// AgentRegistrationFromItem parses a stored attribute map into a
// registration.
func AgentRegistrationFromItem(item store.Item) (*AgentRegistration, error) {
	id, err := item["id"].Int()
	if err != nil {
		return nil, fmt.Errorf("invalid id attribute: %w", err)
	}
	userID, err := item["user_id"].Int()
	if err != nil {
		return nil, fmt.Errorf("invalid user_id attribute: %w", err)
	}
	return &AgentRegistration{
		ID:            id,
		UserID:        userID,
		AgentMainName: item["agent_main_name"].S,
		AgentList:     item["agent_list"].S,
		DateCreated:   item["date_created"].S,
		IsActive:      item["is_active"].Bool,
	}, nil
}
