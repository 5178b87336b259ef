package notify

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/saasradar/saasradar/internal/scoring"
)

// Notifier posts qualifying ideas to a Discord webhook. A nil Notifier
// is safe to call and does nothing, so callers don't have to branch on
// whether notifications are configured.
type Notifier struct {
	log       *zap.Logger
	session   *discordgo.Session
	webhookID string
	token     string
	minScore  int
}

func New(log *zap.Logger, webhookID, token string, minScore int) (*Notifier, error) {
	if webhookID == "" || token == "" {
		return nil, nil
	}

	// Webhook execution needs no bot authentication.
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %v", err)
	}

	return &Notifier{
		log:       log,
		session:   session,
		webhookID: webhookID,
		token:     token,
		minScore:  minScore,
	}, nil
}

// NotifyIdea sends a short embed for the idea when it clears the
// configured score floor.
func (n *Notifier) NotifyIdea(idea *scoring.Idea) error {
	if n == nil {
		return nil
	}
	if idea.Score == nil || idea.TotalScore() < n.minScore {
		return nil
	}

	title := idea.ProductName
	if title == "" {
		title = "@" + idea.AuthorUsername
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s scored %d (%s)", title, idea.TotalScore(), idea.Score.Grade()),
		URL:   idea.PostURL,
		Color: colorForScore(idea.TotalScore()),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Monthly revenue", Value: fmt.Sprintf("$%.0f (%s)", idea.MonthlyRevenue, idea.RevenueKind), Inline: true},
			{Name: "Replicability", Value: string(idea.Replicability), Inline: true},
			{Name: "Category", Value: orDash(idea.Category), Inline: true},
		},
	}
	if idea.ProductURL != "" {
		embed.Description = idea.ProductURL
	}

	_, err := n.session.WebhookExecute(n.webhookID, n.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return fmt.Errorf("failed to execute webhook: %v", err)
	}

	n.log.Info("notified idea",
		zap.String("post_id", idea.PostID),
		zap.Int("score", idea.TotalScore()))
	return nil
}

func colorForScore(score int) int {
	switch {
	case score >= 90:
		return 0x2ecc71
	case score >= 80:
		return 0x3498db
	default:
		return 0x95a5a6
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
