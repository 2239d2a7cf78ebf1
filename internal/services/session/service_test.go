package session

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaagentlabs/agent-gateway-backend/internal/config"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/apikey"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/mapping"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/registry"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/retriever"
	"github.com/metaagentlabs/agent-gateway-backend/internal/services/upstream"
	"github.com/metaagentlabs/agent-gateway-backend/internal/store"
)

const (
	keyTable     = "api_keys"
	agentTable   = "agents"
	mappingTable = "agent_tool_id"
)

// wordHashEngine mirrors the retriever test double: deterministic
// bag-of-words embeddings without a live model.
type wordHashEngine struct{}

func (wordHashEngine) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, 64)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		v[h.Sum32()%64]++
	}
	return v, nil
}

func (e wordHashEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type testEnv struct {
	svc      *Service
	keys     *apikey.Service
	registry *registry.Service
	mappings *mapping.Service
}

func newTestEnv(elizaURL, toolsURL string) *testEnv {
	kv := store.NewMemoryStore(store.Schema{
		keyTable:     "id",
		agentTable:   "id",
		mappingTable: "multi_agent_main_name",
	})

	keys := apikey.NewService(kv, keyTable)
	reg := registry.NewService(kv, agentTable)
	mappings := mapping.NewService(kv, mappingTable)
	ret := retriever.New(wordHashEngine{})

	eliza := upstream.NewElizaClient(&config.ElizaConfig{
		Name:    "Eliza",
		BaseURL: elizaURL,
		Routes: map[string]string{
			"create":  "/create",
			"message": "/{agent_id}/message",
		},
	})
	tools := upstream.NewToolsClient(&config.ToolsConfig{
		Name:    "Tools",
		BaseURL: toolsURL,
		Routes: map[string]string{
			"set":   "/set",
			"query": "/{unique_id}/query",
		},
	})

	return &testEnv{
		svc:      NewService(keys, reg, mappings, ret, eliza, tools),
		keys:     keys,
		registry: reg,
		mappings: mappings,
	}
}

func newElizaServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/create", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"eliza-agent-1"}`))
	})
	mux.HandleFunc("/eliza-agent-1/message", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"text":"hi there"}]`))
	})
	return httptest.NewServer(mux)
}

func newToolsServer(t *testing.T, queries *[]map[string]string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"unique_id":"tools-agent-1"}`))
	})
	mux.HandleFunc("/tools-agent-1/query", func(w http.ResponseWriter, r *http.Request) {
		if queries != nil {
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			*queries = append(*queries, payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"42"}`))
	})
	return httptest.NewServer(mux)
}

func issueKey(t *testing.T, env *testEnv, userID int) string {
	token, err := env.keys.Issue(userID)
	require.NoError(t, err)
	return token
}

func createParams(token string) CreateParams {
	return CreateParams{
		CharacterFile:      json.RawMessage(`{"name":"meta"}`),
		APIKey:             token,
		EnvJSON:            map[string]string{"BINANCE_KEY": "xyz"},
		MultiAgentMainName: "meta-agent",
		MultipleAgentsName: "binance/web-search",
	}
}

func TestCreateSessionSuccess(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	token := issueKey(t, env, 123)

	result, err := env.svc.CreateSession(context.Background(), createParams(token))
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "meta-agent", result.MultiAgentMainName)
	assert.JSONEq(t, `{"id":"eliza-agent-1"}`, string(result.Eliza))
	assert.JSONEq(t, `{"unique_id":"tools-agent-1"}`, string(result.Tools))
	assert.Empty(t, result.Failed)

	exists, err := env.registry.Exists(123, "meta-agent")
	require.NoError(t, err)
	assert.True(t, exists)

	m, err := env.mappings.Get("meta-agent")
	require.NoError(t, err)
	assert.Equal(t, "eliza-agent-1", m.ElizaAgentID)
	assert.Equal(t, "tools-agent-1", m.ToolsAgentID)
}

func TestCreateSessionRejectsInvalidKey(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)

	_, err := env.svc.CreateSession(context.Background(), createParams("bogus"))
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestCreateSessionRejectsDuplicateName(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	token := issueKey(t, env, 123)

	_, err := env.svc.CreateSession(context.Background(), createParams(token))
	require.NoError(t, err)

	_, err = env.svc.CreateSession(context.Background(), createParams(token))
	var duplicate *DuplicateAgentError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "meta-agent", duplicate.Name)
}

func TestCreateSessionToolsFailureKeepsRegistration(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()
	toolsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"provisioning failed"}`))
	}))
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	token := issueKey(t, env, 123)

	result, err := env.svc.CreateSession(context.Background(), createParams(token))
	require.NoError(t, err)
	assert.Equal(t, StatusPartialFailure, result.Status)
	assert.Equal(t, []string{"tools"}, result.Failed)
	assert.JSONEq(t, `{"error":"provisioning failed"}`, string(result.Tools))
	assert.Nil(t, result.Eliza)

	// Eliza succeeded, so the registration side-effect stands.
	exists, err := env.registry.Exists(123, "meta-agent")
	require.NoError(t, err)
	assert.True(t, exists)

	// No mapping was persisted without the Tools id.
	_, err = env.mappings.Get("meta-agent")
	assert.ErrorIs(t, err, mapping.ErrNotFound)
}

func TestCreateSessionNonJSONFailureBodySurvives(t *testing.T) {
	elizaSrv := newElizaServer(t)
	defer elizaSrv.Close()
	toolsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded: not json"))
	}))
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	token := issueKey(t, env, 123)

	result, err := env.svc.CreateSession(context.Background(), createParams(token))
	require.NoError(t, err)
	assert.Equal(t, StatusPartialFailure, result.Status)
	assert.Equal(t, []string{"tools"}, result.Failed)

	// The plain-text body is wrapped as a JSON string so the result
	// still marshals with the diagnostic intact.
	var detail string
	require.NoError(t, json.Unmarshal(result.Tools, &detail))
	assert.Equal(t, "upstream exploded: not json", detail)

	encoded, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "upstream exploded")
}

func TestCreateSessionElizaFailureSkipsRegistration(t *testing.T) {
	elizaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"character rejected"}`))
	}))
	defer elizaSrv.Close()
	toolsSrv := newToolsServer(t, nil)
	defer toolsSrv.Close()

	env := newTestEnv(elizaSrv.URL, toolsSrv.URL)
	token := issueKey(t, env, 123)

	result, err := env.svc.CreateSession(context.Background(), createParams(token))
	require.NoError(t, err)
	assert.Equal(t, StatusPartialFailure, result.Status)
	assert.Equal(t, []string{"eliza"}, result.Failed)
	assert.JSONEq(t, `{"error":"character rejected"}`, string(result.Eliza))
	assert.Nil(t, result.Tools)

	exists, err := env.registry.Exists(123, "meta-agent")
	require.NoError(t, err)
	assert.False(t, exists)

	// The mapping save is attempted for the Tools success but lacks the
	// Eliza id, so nothing is written.
	_, err = env.mappings.Get("meta-agent")
	assert.ErrorIs(t, err, mapping.ErrNotFound)
}
