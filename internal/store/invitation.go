package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/dukerupert/basket/internal/model"
	"github.com/google/uuid"
)

// InvitationTTL is how long an invitation code stays valid.
const InvitationTTL = 7 * 24 * time.Hour

type InvitationStore struct {
	db *sql.DB
}

func NewInvitationStore(db *sql.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

func scanInvitation(scanner interface{ Scan(...any) error }) (*model.Invitation, error) {
	var inv model.Invitation
	var acceptedAt sql.NullTime

	err := scanner.Scan(
		&inv.ID, &inv.HouseholdID, &inv.Email, &inv.Code, &inv.InvitedBy,
		&inv.ExpiresAt, &acceptedAt, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if acceptedAt.Valid {
		inv.AcceptedAt = &acceptedAt.Time
	}
	return &inv, nil
}

const invitationCols = `id, household_id, email, code, invited_by, expires_at, accepted_at, created_at`

// generateCode returns a 6-digit numeric code (100000–999999).
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Create issues a new invitation code for email into the household. Earlier
// pending invitations for the same email and household are expired first.
func (s *InvitationStore) Create(ctx context.Context, householdID, email, invitedBy string) (*model.Invitation, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`UPDATE invitations SET expires_at = ? WHERE household_id = ? AND email = ? AND accepted_at IS NULL AND expires_at > ?`,
		now, householdID, email, now,
	)
	if err != nil {
		return nil, fmt.Errorf("invalidate previous invitations: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO invitations (id, household_id, email, code, invited_by, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, householdID, email, code, invitedBy, now.Add(InvitationTTL), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+invitationCols+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row)
}

// GetPending returns the unaccepted, unexpired invitation matching email and
// code, or nil.
func (s *InvitationStore) GetPending(ctx context.Context, email, code string) (*model.Invitation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+invitationCols+` FROM invitations WHERE email = ? AND code = ? AND accepted_at IS NULL
		 ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		email, code,
	)
	inv, err := scanInvitation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending invitation: %w", err)
	}
	if !time.Now().Before(inv.ExpiresAt) {
		return nil, nil
	}
	return inv, nil
}

func (s *InvitationStore) MarkAccepted(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE invitations SET accepted_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark invitation accepted: %w", err)
	}
	return nil
}

func (s *InvitationStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE accepted_at IS NULL AND expires_at <= ?`,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired invitations: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
