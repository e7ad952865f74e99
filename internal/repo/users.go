package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"aetv-bot/internal/domain"
	"aetv-bot/internal/lang"
)

// UpsertSeen creates the user on first contact or refreshes language and
// last-seen on every subsequent message.
func (s *PostgresStore) UpsertSeen(ctx context.Context, senderID string, language lang.Language) error {
	if senderID == "" {
		return errors.New("upsert seen: empty sender id")
	}
	const q = `
INSERT INTO users (id, sender_id, language, conversation_state, last_seen_at)
VALUES ($1, $2, $3, 'none', NOW())
ON CONFLICT (sender_id) DO UPDATE SET
    language = EXCLUDED.language,
    last_seen_at = NOW();
`
	if _, err := s.pool.Exec(ctx, q, uuid.NewString(), senderID, string(language)); err != nil {
		return fmt.Errorf("upsert seen: %w", err)
	}
	return nil
}

// GetState returns the sender's conversation snapshot. Unseen senders get
// the defaults (none, no pending plan, EN); this never errors on absence.
func (s *PostgresStore) GetState(ctx context.Context, senderID string) (domain.UserState, error) {
	const q = `
SELECT conversation_state, pending_plan, language
FROM users
WHERE sender_id = $1
LIMIT 1;
`
	var (
		stateTag    string
		pendingPlan *string
		langTag     string
	)
	err := s.pool.QueryRow(ctx, q, senderID).Scan(&stateTag, &pendingPlan, &langTag)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserState{State: domain.StateNone, Language: lang.EN}, nil
	}
	if err != nil {
		return domain.UserState{}, fmt.Errorf("get state: %w", err)
	}

	state, err := domain.ParseState(stateTag)
	if err != nil {
		// A tag this code never wrote; treat as idle rather than wedging the sender.
		s.logger.Warn("unknown conversation state in storage", "sender", senderID, "tag", stateTag)
		state = domain.StateNone
	}

	language := lang.Language(langTag)
	if language != lang.AR {
		language = lang.EN
	}

	return domain.UserState{State: state, PendingPlan: pendingPlan, Language: language}, nil
}

// SetState overwrites the conversation state fields and refreshes last-seen.
func (s *PostgresStore) SetState(ctx context.Context, senderID string, state domain.State, pendingPlan *string) error {
	const q = `
UPDATE users
SET conversation_state = $2,
    pending_plan = $3,
    last_seen_at = NOW()
WHERE sender_id = $1;
`
	ct, err := s.pool.Exec(ctx, q, senderID, state.String(), pendingPlan)
	if err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("set state: user not found: %s", senderID)
	}
	return nil
}
