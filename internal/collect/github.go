package collect

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

const githubAPI = "https://api.github.com"

// GitHubCollector pulls a user's public profile, a repository sample and
// follower/following samples from the GitHub REST API.
type GitHubCollector struct {
	client         *Client
	token          string
	repoSample     int
	connectionsCap int
}

// NewGitHubCollector creates a GitHub collector. The token is optional;
// unauthenticated requests just hit lower rate limits.
func NewGitHubCollector(client *Client, cfg *model.Config) *GitHubCollector {
	repoSample := cfg.Collect.RepoSampleSize
	if repoSample <= 0 {
		repoSample = 30
	}
	connections := cfg.Collect.ConnectionLimit
	if connections <= 0 {
		connections = 20
	}
	return &GitHubCollector{
		client:         client,
		token:          cfg.Collect.GitHubToken,
		repoSample:     repoSample,
		connectionsCap: connections,
	}
}

// Platform returns the collection name this collector produces.
func (g *GitHubCollector) Platform() string {
	return "github"
}

func (g *GitHubCollector) headers() map[string]string {
	h := map[string]string{
		"Accept": "application/vnd.github+json",
	}
	if g.token != "" {
		h["Authorization"] = "Bearer " + g.token
	}
	return h
}

// Collect fetches the GitHub footprint for a login.
func (g *GitHubCollector) Collect(ctx context.Context, identifier string) (*model.PlatformData, error) {
	login := url.PathEscape(identifier)

	var user map[string]any
	if err := g.client.GetJSON(ctx, fmt.Sprintf("%s/users/%s", githubAPI, login), g.headers(), &user); err != nil {
		return nil, fmt.Errorf("github user %s: %w", identifier, err)
	}

	data := map[string]any{
		"user": user,
	}

	var repos []any
	reposURL := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d", githubAPI, login, g.repoSample)
	if err := g.client.GetJSON(ctx, reposURL, g.headers(), &repos); err == nil {
		data["repos"] = repos
	}

	var followers []any
	followersURL := fmt.Sprintf("%s/users/%s/followers?per_page=%d", githubAPI, login, g.connectionsCap)
	if err := g.client.GetJSON(ctx, followersURL, g.headers(), &followers); err == nil {
		data["followers_sample"] = followers
	}

	var following []any
	followingURL := fmt.Sprintf("%s/users/%s/following?per_page=%d", githubAPI, login, g.connectionsCap)
	if err := g.client.GetJSON(ctx, followingURL, g.headers(), &following); err == nil {
		data["following_sample"] = following
	}

	return &model.PlatformData{
		Platform:    "github",
		Identifier:  identifier,
		Data:        data,
		CollectedAt: time.Now().UTC(),
	}, nil
}
