package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaagentlabs/agent-gateway-backend/internal/services/mapping"
)

func seedMapping(t *testing.T, env *testEnv) {
	require.NoError(t, env.mappings.Save("meta-agent", "eliza-agent-1", "tools-agent-1"))
}

func TestQueryAgentRoutesConversationToEliza(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	seedMapping(t, env)

	resp, err := env.svc.QueryAgent(context.Background(), "Tell me a joke", "meta-agent", "")
	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.JSONEq(t, `[{"text":"hi there"}]`, string(resp.Body))

	m, err := env.mappings.Get("meta-agent")
	require.NoError(t, err)
	require.Len(t, m.History, 1)
	assert.Equal(t, "User: Tell me a joke\nAI: hi there", m.History[0])
}

func TestQueryAgentRoutesToolQueryToTools(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()

	var queries []map[string]string
	toolsSrv := newToolsServer(t, &queries)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	seedMapping(t, env)

	resp, err := env.svc.QueryAgent(context.Background(), "What is the bitcoin price?", "meta-agent", "extra-123")
	require.NoError(t, err)
	require.True(t, resp.OK())
	assert.JSONEq(t, `{"response":"42"}`, string(resp.Body))

	require.Len(t, queries, 1)
	assert.Equal(t, "tools-agent-1", queries[0]["unique_id"])
	assert.Equal(t, "extra-123", queries[0]["extra_tool_key"])

	// The dispatched prompt is augmented, but the recorded transcript
	// keeps the raw query.
	assert.Contains(t, queries[0]["query"], "What is the bitcoin price?")

	m, err := env.mappings.Get("meta-agent")
	require.NoError(t, err)
	require.Len(t, m.History, 1)
	assert.Equal(t, "User: What is the bitcoin price?\nAI: 42", m.History[0])
}

func TestQueryAgentEvictsOldestHistoryEntry(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	seedMapping(t, env)

	full := make([]string, 20)
	for i := range full {
		full[i] = fmt.Sprintf("User: turn %d\nAI: reply %d", i, i)
	}
	require.NoError(t, env.mappings.UpdateHistory("meta-agent", full))

	_, err := env.svc.QueryAgent(context.Background(), "Tell me a joke", "meta-agent", "")
	require.NoError(t, err)

	m, err := env.mappings.Get("meta-agent")
	require.NoError(t, err)
	require.Len(t, m.History, 20)
	assert.NotContains(t, m.History, full[0])
	assert.Equal(t, full[1], m.History[0])
	assert.Equal(t, "User: Tell me a joke\nAI: hi there", m.History[19])
}

func TestQueryAgentUnknownAgent(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)

	_, err := env.svc.QueryAgent(context.Background(), "hello", "ghost", "")
	assert.ErrorIs(t, err, mapping.ErrNotFound)
}

func TestQueryAgentPassesThroughUpstreamFailure(t *testing.T) {
	elizaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"agent offline"}`))
	}))
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	seedMapping(t, env)

	resp, err := env.svc.QueryAgent(context.Background(), "Tell me a joke", "meta-agent", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"error":"agent offline"}`, string(resp.Body))

	// Failed exchanges are not recorded.
	m, err := env.mappings.Get("meta-agent")
	require.NoError(t, err)
	assert.Empty(t, m.History)
}

func TestExtractAnswer(t *testing.T) {
	assert.Equal(t, "one\ntwo", extractAnswer([]byte(`[{"text":"one"},{"text":"two"}]`)))
	assert.Equal(t, "42", extractAnswer([]byte(`{"response":"42"}`)))
	assert.Equal(t, "plain", extractAnswer([]byte(`{"text":"plain"}`)))
	assert.Equal(t, "not json", extractAnswer([]byte("not json")))
}

func TestPromptIncludesRetrievedContext(t *testing.T) {
	var sawPrompt string
	elizaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/message") {
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			sawPrompt = payload["text"]
			w.Write([]byte(`[{"text":"ok"}]`))
			return
		}
		w.Write([]byte(`{"id":"eliza-agent-1"}`))
	}))
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	seedMapping(t, env)
	require.NoError(t, env.mappings.UpdateHistory("meta-agent", []string{
		"User: my name is Ada\nAI: nice to meet you",
	}))

	_, err := env.svc.QueryAgent(context.Background(), "what is my name", "meta-agent", "")
	require.NoError(t, err)
	assert.Contains(t, sawPrompt, "what is my name")
	assert.Contains(t, sawPrompt, "my name is Ada")
}
