package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herevemarket/admin_console/internal/models"
	"github.com/herevemarket/admin_console/pkg/marketapi"
)

type stubLogin struct {
	email, password string
	token           string
	err             error
}

func (s *stubLogin) Login(_ context.Context, email, password string) (string, error) {
	s.email, s.password = email, password
	return s.token, s.err
}

func TestAuthServiceLogin(t *testing.T) {
	api := &stubLogin{token: "jwt"}
	token, err := NewAuthService(api).Login(context.Background(), "  Admin@Hereve.Market ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)
	assert.Equal(t, "admin@hereve.market", api.email)
}

func TestAuthServiceLoginRejections(t *testing.T) {
	_, err := NewAuthService(&stubLogin{}).Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = NewAuthService(&stubLogin{err: marketapi.ErrInvalidCredentials}).Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	boom := errors.New("dial tcp: refused")
	_, err = NewAuthService(&stubLogin{err: boom}).Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, boom)
}

type memoryAudit struct {
	entries []models.AuditEntry
	err     error
}

func (m *memoryAudit) Insert(_ context.Context, e *models.AuditEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memoryAudit) ListRecent(_ context.Context, limit int) ([]models.AuditEntry, error) {
	if len(m.entries) > limit {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func TestAuditServiceRecords(t *testing.T) {
	store := &memoryAudit{}
	svc := NewAuditService(store)
	rec := &recorder{}

	MultiRecorder{svc, nil, rec}.Record(context.Background(), models.Activity{
		Action:   models.ActivityProductDeleted,
		TargetID: "p1",
		Actor:    "admin@hereve.market",
		At:       fixedNow,
	})

	entries, err := svc.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].TargetID)
	assert.Equal(t, fixedNow, entries[0].CreatedAt)
	assert.Len(t, rec.activities, 1)
}

func TestAuditServiceDisabled(t *testing.T) {
	svc := NewAuditService(nil)
	assert.False(t, svc.Enabled())
	svc.Record(context.Background(), models.Activity{Action: "x"})
	entries, err := svc.Recent(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, entries)
}
