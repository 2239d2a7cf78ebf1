// Package registry stores the per-user catalog of named multi-agents.
package registry

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/metaagentlabs/agent-gateway-backend/internal/models"
	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
)

// Service handles multi-agent registration and lookup.
type Service struct {
	store store.KeyValueStore
	table string
}

// NewService creates a new agent registry over the given table.
func NewService(kv store.KeyValueStore, table string) *Service {
	return &Service{
		store: kv,
		table: table,
	}
}

// Exists reports whether the user already registered an agent under
// name. The check is a filtered scan plus a membership test over the
// user's agent names.
func (s *Service) Exists(userID int, name string) (bool, error) {
	names, err := s.AgentNames(userID)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// Register writes a new registration for the user. The id is assigned by
// scanning for max(id)+1; concurrent registrations can collide on the
// same id, in which case the conditional put rejects the second writer.
func (s *Service) Register(userID int, name, agentList string) (*models.AgentRegistration, error) {
	id, err := s.store.NextID(s.table)
	if err != nil {
		return nil, fmt.Errorf("failed to assign registration id: %w", err)
	}

	registration := &models.AgentRegistration{
		ID:            id,
		UserID:        userID,
		AgentMainName: name,
		AgentList:     agentList,
		DateCreated:   s.store.Now(),
		IsActive:      true,
	}

	if err := s.store.Put(s.table, registration.Item(), store.IfNotExists); err != nil {
		return nil, fmt.Errorf("failed to write registration: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":         userID,
		"agent_main_name": name,
	}).Info("New agent registered")
	return registration, nil
}

// ForUser returns every registration belonging to the user. A nil slice
// means the user has none.
func (s *Service) ForUser(userID int) ([]*models.AgentRegistration, error) {
	items, err := s.store.FilteredScan(s.table, "user_id", store.Number(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to scan agent table: %w", err)
	}
	if items == nil {
		return nil, nil
	}

	registrations := make([]*models.AgentRegistration, 0, len(items))
	for _, item := range items {
		r, err := models.AgentRegistrationFromItem(item)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, r)
	}
	return registrations, nil
}

// AgentNames returns the user's agent main names.
func (s *Service) AgentNames(userID int) ([]string, error) {
	registrations, err := s.ForUser(userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(registrations))
	for _, r := range registrations {
		names = append(names, r.AgentMainName)
	}
	return names, nil
}

// AgentDetails returns name and sub-agent list for each of the user's
// registrations.
func (s *Service) AgentDetails(userID int) ([]models.AgentDetail, error) {
	registrations, err := s.ForUser(userID)
	if err != nil {
		return nil, err
	}
	details := make([]models.AgentDetail, 0, len(registrations))
	for _, r := range registrations {
		details = append(details, models.AgentDetail{
			MainName:  r.AgentMainName,
			AgentList: r.AgentList,
		})
	}
	return details, nil
}

// ActiveAgentNames returns only the names of active registrations.
func (s *Service) ActiveAgentNames(userID int) ([]string, error) {
	registrations, err := s.ForUser(userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(registrations))
	for _, r := range registrations {
		if r.IsActive {
			names = append(names, r.AgentMainName)
		}
	}
	return names, nil
}

// Count returns how many registrations the user has.
func (s *Service) Count(userID int) (int, error) {
	registrations, err := s.ForUser(userID)
	if err != nil {
		return 0, err
	}
	return len(registrations), nil
}

// IDNameMapping returns registration id -> agent main name for the user.
func (s *Service) IDNameMapping(userID int) (map[int]string, error) {
	registrations, err := s.ForUser(userID)
	if err != nil {
		return nil, err
	}
	mapping := make(map[int]string, len(registrations))
	for _, r := range registrations {
		mapping[r.ID] = r.AgentMainName
	}
	return mapping, nil
}
