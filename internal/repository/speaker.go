package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/speakers-bff/internal/model"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SpeakerRepository struct {
	server *server.Server
}

func NewSpeakerRepository(s *server.Server) *SpeakerRepository {
	return &SpeakerRepository{server: s}
}

func (r *SpeakerRepository) CreateSpeaker(ctx context.Context, req model.CreateSpeakerRequest) (*model.Speaker, error) {
	stmt := `
		INSERT INTO speakers (
			name, email, bio, company, website,
			talk_title, talk_length, topics, status, featured
		)
		VALUES (
			@name, @email, @bio, @company, @website,
			@talk_title, @talk_length, @topics, @status, @featured
		)
		RETURNING *
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"name":        req.Name,
		"email":       req.Email,
		"bio":         req.Bio,
		"company":     req.Company,
		"website":     req.Website,
		"talk_title":  req.TalkTitle,
		"talk_length": req.TalkLength,
		"topics":      req.Topics,
		"status":      req.Status,
		"featured":    req.Featured,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create speaker query for email=%s: %w", req.Email, err)
	}

	speaker, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Speaker])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:speakers: email=%s: %w", req.Email, err)
	}

	return &speaker, nil
}

func (r *SpeakerRepository) GetSpeakerByID(ctx context.Context, id uuid.UUID) (*model.Speaker, error) {
	stmt := `SELECT * FROM speakers WHERE id = @id`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get speaker query for id=%s: %w", id, err)
	}

	speaker, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Speaker])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:speakers: id=%s: %w", id, err)
	}

	return &speaker, nil
}

// speakerRow carries the window count used for pagination.
type speakerRow struct {
	model.Speaker
	TotalCount int `db:"total_count"`
}

func (r *SpeakerRepository) ListSpeakers(ctx context.Context, q model.ListSpeakersQuery) (*model.SpeakerPage, error) {
	stmt := `
		SELECT
			s.*,
			COUNT(*) OVER () AS total_count
		FROM speakers s
		WHERE @status::text = '' OR s.status = @status
		ORDER BY s.created_at DESC, s.id
		LIMIT @limit OFFSET @offset
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"status": q.Status,
		"limit":  q.Limit,
		"offset": q.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute list speakers query: %w", err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowToStructByName[speakerRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:speakers: %w", err)
	}

	page := &model.SpeakerPage{
		Data:   make([]model.Speaker, 0, len(result)),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	for _, row := range result {
		page.Data = append(page.Data, row.Speaker)
		page.Total = row.TotalCount
	}

	return page, nil
}

func (r *SpeakerRepository) DeleteSpeaker(ctx context.Context, id uuid.UUID) error {
	stmt := `DELETE FROM speakers WHERE id = @id`

	tag, err := r.server.DB.Pool.Exec(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to execute delete speaker query for id=%s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete from table:speakers: id=%s: %w", id, pgx.ErrNoRows)
	}

	return nil
}
