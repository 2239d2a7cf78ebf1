package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
)

const testTable = "agent_tool_id"

func newTestService() (*Service, *store.MemoryStore) {
	kv := store.NewMemoryStore(store.Schema{testTable: "multi_agent_main_name"})
	return NewService(kv, testTable), kv
}

func TestSaveAndGet(t *testing.T) {
	svc, _ := newTestService()

	require.NoError(t, svc.Save("meta-agent", "eliza-1", "tools-1"))

	m, err := svc.Get("meta-agent")
	require.NoError(t, err)
	assert.Equal(t, "eliza-1", m.ElizaAgentID)
	assert.Equal(t, "tools-1", m.ToolsAgentID)
	assert.Empty(t, m.History)
}

func TestSaveRequiresBothIDs(t *testing.T) {
	svc, kv := newTestService()

	assert.ErrorIs(t, svc.Save("meta-agent", "", "tools-1"), ErrMissingAgentIDs)
	assert.ErrorIs(t, svc.Save("meta-agent", "eliza-1", ""), ErrMissingAgentIDs)

	items, err := kv.Scan(testTable)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetUnknownNameReturnsNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateHistoryRewritesRecord(t *testing.T) {
	svc, _ := newTestService()

	require.NoError(t, svc.Save("meta-agent", "eliza-1", "tools-1"))
	require.NoError(t, svc.UpdateHistory("meta-agent", []string{"User: hi\nAI: hello"}))

	m, err := svc.Get("meta-agent")
	require.NoError(t, err)
	assert.Equal(t, []string{"User: hi\nAI: hello"}, m.History)

	// The ids survive the full-record rewrite.
	assert.Equal(t, "eliza-1", m.ElizaAgentID)
	assert.Equal(t, "tools-1", m.ToolsAgentID)

	assert.ErrorIs(t, svc.UpdateHistory("missing", nil), ErrNotFound)
}

func TestSaveDuplicateNameFails(t *testing.T) {
	svc, _ := newTestService()

	require.NoError(t, svc.Save("meta-agent", "eliza-1", "tools-1"))
	err := svc.Save("meta-agent", "eliza-2", "tools-2")
	assert.ErrorIs(t, err, store.ErrItemExists)
}
