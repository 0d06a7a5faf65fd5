package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chatbot/internal/conversation"
)

// ConversationStore keeps the transcripts of completed exchanges in SQLite.
type ConversationStore struct {
	db *sql.DB
}

// NewConversationStore creates a store backed by an initialized database.
func NewConversationStore(db *sql.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Append adds turns to the end of a conversation, creating it if needed.
func (cs *ConversationStore) Append(ctx context.Context, conversationID string, turns ...conversation.Turn) error {
	tx, err := cs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixNano()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (id, last_updated) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_updated = excluded.last_updated`,
		conversationID, now)
	if err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}

	for _, turn := range turns {
		var (
			mime any
			data any
		)
		if it, ok := turn.(conversation.ImageTurn); ok {
			mime = it.Image.MIMEType
			data = it.Image.Data
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO turns (conversation_id, role, content, image_mime, image_data, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			conversationID, string(turn.Role()), turn.Text(), mime, data, now)
		if err != nil {
			return fmt.Errorf("failed to insert turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// History returns the turns of a conversation in the order they were stored.
// An unknown conversation has an empty history.
func (cs *ConversationStore) History(ctx context.Context, conversationID string) ([]conversation.Turn, error) {
	rows, err := cs.db.QueryContext(ctx,
		`SELECT role, content, image_mime, image_data FROM turns
		 WHERE conversation_id = ? ORDER BY id`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	turns := []conversation.Turn{}
	for rows.Next() {
		var (
			role, content string
			mime          sql.NullString
			data          []byte
		)
		if err := rows.Scan(&role, &content, &mime, &data); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		if mime.Valid {
			turns = append(turns, conversation.ImageTurn{
				From:    conversation.Role(role),
				Content: content,
				Image:   conversation.Image{Data: data, MIMEType: mime.String},
			})
			continue
		}
		turns = append(turns, conversation.TextTurn{From: conversation.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read turns: %w", err)
	}
	return turns, nil
}

// Clear removes a conversation and its turns.
func (cs *ConversationStore) Clear(ctx context.Context, conversationID string) error {
	tx, err := cs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete turns: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return tx.Commit()
}
