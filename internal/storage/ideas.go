package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saasradar/saasradar/internal/extract"
	"github.com/saasradar/saasradar/internal/scoring"
)

// ListFilter narrows ListIdeas. Zero values mean "no constraint".
type ListFilter struct {
	MinScore      int
	MinRevenue    float64
	Category      string
	FavoritesOnly bool
	Limit         int
	Offset        int
}

const ideaColumns = `id, post_id, post_url, post_text, post_created_at, backend,
	author_username, author_followers, author_verified,
	likes, reshares, replies, impressions,
	monthly_revenue, revenue_kind, revenue_confidence, revenue_raw,
	product_name, product_url, product_domain,
	has_screenshot, has_dashboard_screenshot,
	total_score, traction_score, growth_score, traffic_score, simplicity_score, grade,
	complexity, category, replicability, replicability_note,
	favorite, note, found_at`

// UpsertIdea stores a freshly processed idea. For a post already on
// record the engagement counters always refresh, but the score block is
// replaced only when the new total is strictly higher, so a post whose
// metrics decayed keeps its best known score. Favorite and note are
// never touched here. Returns true when a new row was created.
func (s *Store) UpsertIdea(ctx context.Context, idea *scoring.Idea) (bool, error) {

	existing, err := s.GetIdeaByPostID(ctx, idea.PostID)

	if err != nil {
		if err != sql.ErrNoRows {
			return false, fmt.Errorf("failed to look up idea: %v", err)
		}

		if idea.ID == uuid.Nil {
			idea.ID = uuid.New()
		}
		if idea.FoundAt.IsZero() {
			idea.FoundAt = time.Now().UTC()
		}

		_, err = s.db.ExecContext(ctx, `INSERT INTO ideas (`+ideaColumns+`, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
				$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36)`,
			idea.ID, idea.PostID, idea.PostURL, idea.PostText, nullTime(idea.PostCreatedAt), idea.Backend,
			idea.AuthorUsername, idea.AuthorFollowers, idea.AuthorVerified,
			idea.Likes, idea.Reshares, idea.Replies, idea.Impressions,
			idea.MonthlyRevenue, string(idea.RevenueKind), idea.RevenueConfidence, idea.RevenueRaw,
			idea.ProductName, idea.ProductURL, idea.ProductDomain,
			idea.HasScreenshot, idea.HasDashboardScreenshot,
			idea.TotalScore(), scorePart(idea, "traction"), scorePart(idea, "growth"),
			scorePart(idea, "traffic"), scorePart(idea, "simplicity"), grade(idea),
			string(idea.Complexity), idea.Category, string(idea.Replicability), idea.ReplicabilityNote,
			idea.Favorite, idea.Note, idea.FoundAt, time.Now().UTC())
		if err != nil {
			return false, fmt.Errorf("failed to insert idea: %v", err)
		}
		return true, nil
	}

	idea.ID = existing.ID
	idea.Favorite = existing.Favorite
	idea.Note = existing.Note
	idea.FoundAt = existing.FoundAt

	keepScore := existing.TotalScore() >= idea.TotalScore()
	if keepScore {
		s.log.Debug("keeping previous score",
			zap.String("post_id", idea.PostID),
			zap.Int("previous", existing.TotalScore()),
			zap.Int("new", idea.TotalScore()))
		idea.Score = existing.Score
		idea.Complexity = existing.Complexity
		idea.Category = existing.Category
		idea.Replicability = existing.Replicability
		idea.ReplicabilityNote = existing.ReplicabilityNote
	}

	_, err = s.db.ExecContext(ctx, `UPDATE ideas SET
			likes = $2, reshares = $3, replies = $4, impressions = $5,
			author_followers = $6, author_verified = $7,
			monthly_revenue = $8, revenue_kind = $9, revenue_confidence = $10, revenue_raw = $11,
			product_name = $12, product_url = $13, product_domain = $14,
			has_screenshot = $15, has_dashboard_screenshot = $16,
			total_score = $17, traction_score = $18, growth_score = $19,
			traffic_score = $20, simplicity_score = $21, grade = $22,
			complexity = $23, category = $24, replicability = $25, replicability_note = $26,
			updated_at = $27
		WHERE id = $1`,
		idea.ID,
		idea.Likes, idea.Reshares, idea.Replies, idea.Impressions,
		idea.AuthorFollowers, idea.AuthorVerified,
		idea.MonthlyRevenue, string(idea.RevenueKind), idea.RevenueConfidence, idea.RevenueRaw,
		idea.ProductName, idea.ProductURL, idea.ProductDomain,
		idea.HasScreenshot, idea.HasDashboardScreenshot,
		idea.TotalScore(), scorePart(idea, "traction"), scorePart(idea, "growth"),
		scorePart(idea, "traffic"), scorePart(idea, "simplicity"), grade(idea),
		string(idea.Complexity), idea.Category, string(idea.Replicability), idea.ReplicabilityNote,
		time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to update idea: %v", err)
	}
	return false, nil
}

func (s *Store) GetIdea(ctx context.Context, id uuid.UUID) (*scoring.Idea, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ideaColumns+` FROM ideas WHERE id = $1`, id)
	return scanIdea(row)
}

func (s *Store) GetIdeaByPostID(ctx context.Context, postID string) (*scoring.Idea, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ideaColumns+` FROM ideas WHERE post_id = $1`, postID)
	return scanIdea(row)
}

func (s *Store) ListIdeas(ctx context.Context, f ListFilter) ([]*scoring.Idea, error) {

	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.MinScore > 0 {
		add("total_score >= $%d", f.MinScore)
	}
	if f.MinRevenue > 0 {
		add("monthly_revenue >= $%d", f.MinRevenue)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.FavoritesOnly {
		where = append(where, "favorite = TRUE")
	}

	query := `SELECT ` + ideaColumns + ` FROM ideas`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY total_score DESC, found_at DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %v", err)
	}
	defer rows.Close()

	var ideas []*scoring.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// TopIdeasSince returns the highest scored ideas found after the cutoff.
func (s *Store) TopIdeasSince(ctx context.Context, since time.Time, limit int) ([]*scoring.Idea, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+ideaColumns+` FROM ideas
		WHERE found_at >= $1 ORDER BY total_score DESC LIMIT $2`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent ideas: %v", err)
	}
	defer rows.Close()

	var ideas []*scoring.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// SetFavorite toggles the favorite flag and returns the new value.
func (s *Store) SetFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	var favorite bool
	err := s.db.QueryRowContext(ctx,
		`UPDATE ideas SET favorite = NOT favorite, updated_at = $2 WHERE id = $1 RETURNING favorite`,
		id, time.Now().UTC()).Scan(&favorite)
	if err != nil {
		return false, err
	}
	return favorite, nil
}

func (s *Store) SetNote(ctx context.Context, id uuid.UUID, note string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ideas SET note = $2, updated_at = $3 WHERE id = $1`,
		id, note, time.Now().UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) CountIdeas(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ideas`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdea(row rowScanner) (*scoring.Idea, error) {

	var (
		idea      scoring.Idea
		createdAt sql.NullTime
		kind      string
		score     scoring.Result
		gradeCol  string
		compl     string
		repl      string
	)

	err := row.Scan(
		&idea.ID, &idea.PostID, &idea.PostURL, &idea.PostText, &createdAt, &idea.Backend,
		&idea.AuthorUsername, &idea.AuthorFollowers, &idea.AuthorVerified,
		&idea.Likes, &idea.Reshares, &idea.Replies, &idea.Impressions,
		&idea.MonthlyRevenue, &kind, &idea.RevenueConfidence, &idea.RevenueRaw,
		&idea.ProductName, &idea.ProductURL, &idea.ProductDomain,
		&idea.HasScreenshot, &idea.HasDashboardScreenshot,
		&score.Total, &score.Traction, &score.Growth, &score.Traffic, &score.Simplicity, &gradeCol,
		&compl, &idea.Category, &repl, &idea.ReplicabilityNote,
		&idea.Favorite, &idea.Note, &idea.FoundAt)
	if err != nil {
		return nil, err
	}

	if createdAt.Valid {
		idea.PostCreatedAt = createdAt.Time
	}
	idea.RevenueKind = extract.RevenueKind(kind)
	idea.Score = &score
	idea.Complexity = scoring.Complexity(compl)
	idea.Replicability = scoring.Replicability(repl)
	return &idea, nil
}

func scorePart(idea *scoring.Idea, part string) int {
	if idea.Score == nil {
		return 0
	}
	switch part {
	case "traction":
		return idea.Score.Traction
	case "growth":
		return idea.Score.Growth
	case "traffic":
		return idea.Score.Traffic
	case "simplicity":
		return idea.Score.Simplicity
	}
	return 0
}

func grade(idea *scoring.Idea) string {
	if idea.Score == nil {
		return "F"
	}
	return idea.Score.Grade()
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
