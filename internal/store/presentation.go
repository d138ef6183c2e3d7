package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"slideforge/internal/models"
)

// PresentationStore handles persistence of presentations. Slides, theme and
// branding are stored as JSONB so the document round-trips exactly as the
// editor holds it in memory. Methods take a context because saves run on
// background goroutines that may outlive the request.
type PresentationStore struct {
	db *sql.DB
}

// NewPresentationStore creates a new PresentationStore.
func NewPresentationStore(db *sql.DB) *PresentationStore {
	return &PresentationStore{db: db}
}

// Create inserts a new presentation. The caller supplies the ID so the
// in-memory document and the stored row share it from the start.
func (s *PresentationStore) Create(ctx context.Context, p *models.Presentation) error {
	slides, theme, branding, err := marshalDoc(p)
	if err != nil {
		return err
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO presentations (id, user_id, topic, slides, theme, branding)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.Topic, slides, theme, branding).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create presentation: %w", err)
	}
	return nil
}

// Update replaces the stored document with the given one. Used by the editor
// as its save target after every committed edit.
func (s *PresentationStore) Update(ctx context.Context, p *models.Presentation) error {
	slides, theme, branding, err := marshalDoc(p)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE presentations
		SET topic = $1, slides = $2, theme = $3, branding = $4, updated_at = NOW()
		WHERE id = $5
	`, p.Topic, slides, theme, branding, p.ID)
	if err != nil {
		return fmt.Errorf("update presentation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update presentation rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update presentation: %s not found", p.ID)
	}
	return nil
}

// FindByID retrieves a presentation by its UUID. Returns nil if not found.
func (s *PresentationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Presentation, error) {
	var (
		p        models.Presentation
		slides   []byte
		theme    []byte
		branding []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, topic, slides, theme, branding, created_at, updated_at
		FROM presentations WHERE id = $1
	`, id).Scan(&p.ID, &p.UserID, &p.Topic, &slides, &theme, &branding, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find presentation by id: %w", err)
	}

	if err := unmarshalDoc(&p, slides, theme, branding); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns all presentations owned by a user, most recently
// updated first.
func (s *PresentationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Presentation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, topic, slides, theme, branding, created_at, updated_at
		FROM presentations WHERE user_id = $1 ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer rows.Close()

	var out []models.Presentation
	for rows.Next() {
		var (
			p        models.Presentation
			slides   []byte
			theme    []byte
			branding []byte
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Topic, &slides, &theme, &branding, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		if err := unmarshalDoc(&p, slides, theme, branding); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a presentation by ID.
func (s *PresentationStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM presentations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete presentation: %w", err)
	}
	return nil
}

func marshalDoc(p *models.Presentation) (slides, theme, branding []byte, err error) {
	if slides, err = json.Marshal(p.Slides); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal slides: %w", err)
	}
	if theme, err = json.Marshal(p.Theme); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal theme: %w", err)
	}
	if branding, err = json.Marshal(p.Branding); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal branding: %w", err)
	}
	return slides, theme, branding, nil
}

func unmarshalDoc(p *models.Presentation, slides, theme, branding []byte) error {
	if err := json.Unmarshal(slides, &p.Slides); err != nil {
		return fmt.Errorf("unmarshal slides: %w", err)
	}
	if err := json.Unmarshal(theme, &p.Theme); err != nil {
		return fmt.Errorf("unmarshal theme: %w", err)
	}
	if err := json.Unmarshal(branding, &p.Branding); err != nil {
		return fmt.Errorf("unmarshal branding: %w", err)
	}
	return nil
}
