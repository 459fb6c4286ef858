package records

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medblock/internal/hashing"
	"medblock/internal/identity"
	"medblock/internal/ledger"
	"medblock/internal/platform/metrics"
	"medblock/pkg/domain"
	dErrors "medblock/pkg/domain-errors"
)

type fixture struct {
	svc     *Service
	store   *InMemoryStore
	chain   *ledger.HashChain
	metrics *metrics.Metrics
	patient domain.DID
	author  domain.DID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	dir := identity.NewDirectory("med")
	patient, err := dir.Register(ctx, identity.KindPatient, "Alice Tanaka")
	require.NoError(t, err)
	author, err := dir.Register(ctx, identity.KindPractitioner, "Dr. Okafor")
	require.NoError(t, err)

	hasher, err := hashing.New(hashing.SHA256)
	require.NoError(t, err)

	store := NewInMemoryStore()
	chain := ledger.NewHashChain()
	m := metrics.NewWith(prometheus.NewRegistry())
	return &fixture{
		svc:     NewService(store, chain, dir, hasher, slog.New(slog.NewTextHandler(io.Discard, nil)), m),
		store:   store,
		chain:   chain,
		metrics: m,
		patient: patient.DID,
		author:  author.DID,
	}
}

func TestService_NotarizeStoresVerifiableRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := map[string]any{"code": "789-8", "value": 13.5}
	record, err := f.svc.Notarize(ctx, CreateRequest{
		SubjectDID:   f.patient,
		AuthorDID:    f.author,
		ResourceType: domain.ResourceObservation,
		Payload:      payload,
	})
	require.NoError(t, err)

	hasher, err := hashing.New(hashing.SHA256)
	require.NoError(t, err)
	digest, err := hasher.Digest(payload)
	require.NoError(t, err)
	assert.Equal(t, digest, record.ContentHash)

	ok, err := f.chain.Confirmed(ctx, record.LedgerRef)
	require.NoError(t, err)
	assert.True(t, ok)

	meta, err := f.chain.Metadata(ctx, record.LedgerRef)
	require.NoError(t, err)
	assert.Equal(t, ledger.KindRecord, meta[ledger.MetaKind])
	assert.Equal(t, digest, meta[ledger.MetaRecordHash])
	assert.Equal(t, "Observation", meta[ledger.MetaRecordType])
	assert.Equal(t, f.patient.String(), meta[ledger.MetaPatientDID])

	got, err := f.svc.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ContentHash, got.ContentHash)
	assert.Equal(t, record.LedgerRef, got.LedgerRef)
}

func TestService_NotarizeRejectsDuplicatePayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := CreateRequest{
		SubjectDID:   f.patient,
		AuthorDID:    f.author,
		ResourceType: domain.ResourceObservation,
		Payload:      map[string]any{"code": "789-8", "value": 13.5},
	}
	_, err := f.svc.Notarize(ctx, req)
	require.NoError(t, err)

	// Same payload, even reordered, hashes identically and conflicts.
	req.Payload = map[string]any{"value": 13.5, "code": "789-8"}
	_, err = f.svc.Notarize(ctx, req)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestService_NotarizeValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Notarize(ctx, CreateRequest{
		SubjectDID:   f.patient,
		ResourceType: domain.ResourceObservation,
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = f.svc.Notarize(ctx, CreateRequest{
		SubjectDID:   domain.DID("did:med:ghost"),
		ResourceType: domain.ResourceObservation,
		Payload:      map[string]any{"code": "x"},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = f.svc.Notarize(ctx, CreateRequest{
		SubjectDID:   f.patient,
		AuthorDID:    domain.DID("did:med:ghost"),
		ResourceType: domain.ResourceObservation,
		Payload:      map[string]any{"code": "x"},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = f.svc.Notarize(ctx, CreateRequest{
		SubjectDID:   f.patient,
		ResourceType: domain.ResourceObservation,
		Payload:      map[string]any{"bad": make(chan int)},
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSerialization))
}

func TestService_NotarizeFailsClosedOnLedgerOutage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.chain = unavailableLedger{}

	_, err := f.svc.Notarize(ctx, CreateRequest{
		SubjectDID:   f.patient,
		ResourceType: domain.ResourceObservation,
		Payload:      map[string]any{"code": "789-8"},
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeLedgerUnavailable))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(f.metrics.LedgerFailures.WithLabelValues(metrics.PathRecord)))

	// Nothing persisted: a record never exists without a ledger ref.
	summaries, err := f.svc.ListBySubject(ctx, f.patient)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestService_ListBySubjectOmitsPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Notarize(ctx, CreateRequest{
		SubjectDID:   f.patient,
		ResourceType: domain.ResourceObservation,
		Payload:      map[string]any{"code": "789-8", "value": 13.5},
	})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := f.svc.Notarize(ctx, CreateRequest{
		SubjectDID:   f.patient,
		ResourceType: domain.ResourceEncounter,
		Payload:      map[string]any{"class": "ambulatory"},
	})
	require.NoError(t, err)

	summaries, err := f.svc.ListBySubject(ctx, f.patient)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, second.ID, summaries[0].ID)
	assert.Equal(t, first.ID, summaries[1].ID)

	other, err := f.svc.ListBySubject(ctx, f.author)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestService_GetUnknownRecord(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), domain.NewRecordID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

type unavailableLedger struct{}

func (unavailableLedger) Notarize(context.Context, string, map[string]string) (ledger.Ref, error) {
	return "", dErrors.New(dErrors.CodeLedgerUnavailable, "ledger down")
}
func (unavailableLedger) Confirmed(context.Context, ledger.Ref) (bool, error) {
	return false, dErrors.New(dErrors.CodeLedgerUnavailable, "ledger down")
}
func (unavailableLedger) Metadata(context.Context, ledger.Ref) (map[string]string, error) {
	return nil, dErrors.New(dErrors.CodeLedgerUnavailable, "ledger down")
}
