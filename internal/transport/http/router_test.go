package httptransport

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medblock/internal/access"
	"medblock/internal/audit"
	"medblock/internal/consent"
	"medblock/internal/hashing"
	"medblock/internal/identity"
	"medblock/internal/ledger"
	"medblock/internal/platform/metrics"
	"medblock/internal/records"
	"medblock/pkg/domain"
)

// apiClient drives the full API over a test server, including the DID
// challenge-signature handshake on every authenticated call.
type apiClient struct {
	t      *testing.T
	server *httptest.Server
	did    domain.DID
	priv   ed25519.PrivateKey
}

func newRouterFixture(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWith(prometheus.NewRegistry())
	hasher, err := hashing.New(hashing.SHA256)
	require.NoError(t, err)

	directory := identity.NewDirectory("med")
	challenges := identity.NewChallengeService("test-signing-key", "medblock", 5*time.Minute)
	chain := ledger.NewHashChain()

	recordStore := records.NewInMemoryStore()
	consentStore := consent.NewInMemoryStore()
	auditStore := audit.NewInMemoryStore()

	recordSvc := records.NewService(recordStore, chain, directory, hasher, logger, m)
	consentSvc := consent.NewService(consentStore, chain, directory, hasher, logger, m)
	auditSvc := audit.NewService(auditStore, nil, logger)
	gate := access.NewGate(recordSvc, consentSvc, auditSvc, chain, directory, hasher, logger, m)

	handler := NewHandler(logger, m, gate, recordSvc, consentSvc, auditSvc, directory, challenges, directory)
	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)
	return server
}

func registerParty(t *testing.T, server *httptest.Server, path, name string) *apiClient {
	t.Helper()
	body, err := json.Marshal(RegisterRequest{Name: name})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var reg struct {
		DID        domain.DID `json:"did"`
		PrivateKey []byte     `json:"private_key"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reg))
	require.NotEmpty(t, reg.PrivateKey)

	return &apiClient{t: t, server: server, did: reg.DID, priv: ed25519.PrivateKey(reg.PrivateKey)}
}

func (c *apiClient) challenge() string {
	c.t.Helper()
	body, err := json.Marshal(ChallengeRequest{DID: string(c.did)})
	require.NoError(c.t, err)

	resp, err := http.Post(c.server.URL+"/identity/challenge", "application/json", bytes.NewReader(body))
	require.NoError(c.t, err)
	defer resp.Body.Close()
	require.Equal(c.t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return out["challenge"]
}

// do sends an authenticated request and decodes the JSON response body.
func (c *apiClient) do(method, path string, payload any, out any) int {
	c.t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.server.URL+path, body)
	require.NoError(c.t, err)

	token := c.challenge()
	sig := ed25519.Sign(c.priv, []byte(token))
	req.Header.Set("Authorization", fmt.Sprintf("DID %s signature:%s", c.did, base64.StdEncoding.EncodeToString(sig)))
	req.Header.Set("X-DID-Message", token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type accessResponse struct {
	Record       records.Record    `json:"record"`
	HashVerified bool              `json:"hash_verified"`
	ConsentRef   *domain.ConsentID `json:"consent_ref"`
}

func TestRouterEndToEnd(t *testing.T) {
	server := newRouterFixture(t)
	patient := registerParty(t, server, "/identity/patients", "Alice Tanaka")
	practitioner := registerParty(t, server, "/identity/practitioners", "Dr. Okafor")

	var record records.Record
	status := practitioner.do(http.MethodPost, "/records", CreateRecordRequest{
		SubjectDID:   string(patient.did),
		ResourceType: "Observation",
		Payload:      map[string]any{"code": "blood-pressure", "systolic": 120, "diastolic": 80},
	}, &record)
	require.Equal(t, http.StatusCreated, status)
	require.False(t, record.ID.IsNil())
	require.NotEmpty(t, record.ContentHash)
	require.NotEmpty(t, record.LedgerRef)

	recordPath := "/records/" + record.ID.String()

	t.Run("subject reads its own record without consent", func(t *testing.T) {
		var resp accessResponse
		status := patient.do(http.MethodGet, recordPath, nil, &resp)
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, resp.HashVerified)
		assert.Nil(t, resp.ConsentRef)
		assert.Equal(t, record.ID, resp.Record.ID)
	})

	t.Run("practitioner is denied before any grant", func(t *testing.T) {
		var errResp map[string]any
		status := practitioner.do(http.MethodGet, recordPath, nil, &errResp)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "no_consent", errResp["error"])
	})

	var grant consent.Grant
	t.Run("subject grants scoped consent", func(t *testing.T) {
		status := patient.do(http.MethodPost, "/consents", GrantConsentRequest{
			GranteeDID:    string(practitioner.did),
			Scope:         []string{"Observation"},
			DurationHours: 48,
		}, &grant)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, consent.StatusActive, grant.Status)
		assert.NotEmpty(t, grant.LedgerRef)
	})

	t.Run("consented practitioner reads with attribution", func(t *testing.T) {
		var resp accessResponse
		status := practitioner.do(http.MethodGet, recordPath, nil, &resp)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, resp.HashVerified)
		require.NotNil(t, resp.ConsentRef)
		assert.Equal(t, grant.ID, *resp.ConsentRef)
	})

	t.Run("grantee sees only in-scope summaries", func(t *testing.T) {
		var resp struct {
			Records []records.Summary `json:"records"`
		}
		status := practitioner.do(http.MethodGet, "/records?subject="+string(patient.did), nil, &resp)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, resp.Records, 1)
		assert.Equal(t, record.ID, resp.Records[0].ID)
		assert.Equal(t, record.ContentHash, resp.Records[0].ContentHash)
	})

	t.Run("revocation takes effect on the next request", func(t *testing.T) {
		var revoked consent.Grant
		status := patient.do(http.MethodPost, "/consents/"+grant.ID.String()+"/revoke", nil, &revoked)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, consent.StatusRevoked, revoked.Status)

		status = practitioner.do(http.MethodGet, recordPath, nil, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("subject reads its own access trail", func(t *testing.T) {
		var resp struct {
			Entries []audit.Entry `json:"entries"`
		}
		status := patient.do(http.MethodGet, "/audit/subject/"+string(patient.did), nil, &resp)
		require.Equal(t, http.StatusOK, status)
		// One self access plus one consented access; denied attempts are
		// never part of the stored trail.
		require.Len(t, resp.Entries, 2)
		for _, entry := range resp.Entries {
			assert.Equal(t, patient.did, entry.SubjectDID)
			assert.NotEmpty(t, entry.LedgerRef)
		}
	})

	t.Run("trail of another party is off limits", func(t *testing.T) {
		status := practitioner.do(http.MethodGet, "/audit/subject/"+string(patient.did), nil, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestRouterRejectsUnauthenticatedRequests(t *testing.T) {
	server := newRouterFixture(t)

	resp, err := http.Get(server.URL + "/records?subject=did:med:any")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouterRejectsForgedSignature(t *testing.T) {
	server := newRouterFixture(t)
	patient := registerParty(t, server, "/identity/patients", "Alice Tanaka")
	mallory := registerParty(t, server, "/identity/patients", "Mallory")

	// Mallory signs Alice's challenge with her own key.
	token := patient.challenge()
	sig := ed25519.Sign(mallory.priv, []byte(token))

	req, err := http.NewRequest(http.MethodGet, server.URL+"/consents", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", fmt.Sprintf("DID %s signature:%s", patient.did, base64.StdEncoding.EncodeToString(sig)))
	req.Header.Set("X-DID-Message", token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouterHealthAndMetricsArePublic(t *testing.T) {
	server := newRouterFixture(t)

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
