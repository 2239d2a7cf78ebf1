// Package mapping persists the link between a multi-agent name and the
// identifiers assigned by the downstream services, together with the
// rolling conversation history.
package mapping

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/metaagentlabs/agent-gateway-backend/internal/models"
	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
)

// ErrNotFound is returned when no mapping exists for an agent name.
var ErrNotFound = errors.New("agent mapping not found")

// ErrMissingAgentIDs is returned when a downstream response lacked the
// identifier needed to persist the mapping.
var ErrMissingAgentIDs = errors.New("invalid response: missing agent IDs")

// Service handles agent/tool mapping persistence.
type Service struct {
	store store.KeyValueStore
	table string
}

// NewService creates a new mapping service over the given table.
func NewService(kv store.KeyValueStore, table string) *Service {
	return &Service{
		store: kv,
		table: table,
	}
}

// Save writes a new mapping for the agent name. Both downstream ids are
// required. No check is made that a registration exists for the name;
// the registry and this table are written independently.
func (s *Service) Save(name, elizaAgentID, toolsAgentID string) error {
	if elizaAgentID == "" || toolsAgentID == "" {
		return ErrMissingAgentIDs
	}

	m := &models.AgentToolMapping{
		MultiAgentMainName: name,
		ElizaAgentID:       elizaAgentID,
		ToolsAgentID:       toolsAgentID,
		History:            []string{},
	}

	if err := s.store.Put(s.table, m.Item(), store.IfNotExists); err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}

	logrus.WithField("multi_agent_main_name", name).Info("Agent and tools mapping saved")
	return nil
}

// Get fetches the mapping for an agent name, or ErrNotFound.
func (s *Service) Get(name string) (*models.AgentToolMapping, error) {
	item, err := s.store.Get(s.table, store.String(name))
	if err != nil {
		return nil, fmt.Errorf("failed to get mapping: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return models.AgentToolMappingFromItem(item), nil
}

// UpdateHistory rewrites the full mapping record with the given history.
// Read-modify-write is not atomic; concurrent queries against the same
// agent can lose updates.
func (s *Service) UpdateHistory(name string, history []string) error {
	m, err := s.Get(name)
	if err != nil {
		return err
	}
	m.History = history
	if err := s.store.Put(s.table, m.Item(), store.Overwrite); err != nil {
		return fmt.Errorf("failed to update history: %w", err)
	}
	return nil
}
