package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// TopGGClient handles Top.gg API interactions
type TopGGClient struct {
	apiToken string
	botID    string
	client   *http.Client
}

// TopGGVoteResponse represents the response from the Top.gg vote check API
type TopGGVoteResponse struct {
	Voted int `json:"voted"` // 0 = hasn't voted, 1 = has voted
}

// NewTopGGClient creates a new Top.gg client. Returns nil when no token is
// configured; a nil client reports every user as a non-voter.
func NewTopGGClient(botID, apiToken string) *TopGGClient {
	if apiToken == "" {
		return nil
	}
	return &TopGGClient{
		apiToken: apiToken,
		botID:    botID,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CheckUserVote checks if a user has voted for the bot on Top.gg
func (c *TopGGClient) CheckUserVote(ctx context.Context, userID int64) (bool, error) {
	if c == nil || c.apiToken == "" {
		return false, nil
	}

	url := fmt.Sprintf("https://top.gg/api/bots/%s/check?userId=%d", c.botID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("Top.gg API returned status %d", resp.StatusCode)
	}

	var voteResponse TopGGVoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&voteResponse); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return voteResponse.Voted == 1, nil
}

// EffectiveMultiplier returns the pp multiplier with the vote bonus applied:
// a user who voted on Top.gg gets double multiplier until the vote expires.
// Vote check failures fall back to the base multiplier.
func (c *TopGGClient) EffectiveMultiplier(ctx context.Context, pp *Pp) float64 {
	voted, err := c.CheckUserVote(ctx, pp.UserID)
	if err != nil {
		log.WithError(err).WithField("user_id", pp.UserID).Warn("Top.gg vote check failed")
		return pp.Multiplier
	}
	if voted {
		return pp.Multiplier * 2
	}
	return pp.Multiplier
}

// VoteURL returns the Top.gg voting URL for the bot
func (c *TopGGClient) VoteURL() string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("https://top.gg/bot/%s/vote", c.botID)
}
