package api

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Release is a published (or draft) version of the product.
type Release struct {
	ID               uuid.UUID  `json:"id"`
	Version          string     `json:"version"`
	Track            string     `json:"track"`
	Status           string     `json:"status"`
	DockerImages     []string   `json:"docker_images"`
	RequiresDowntime bool       `json:"requires_downtime"`
	BreakingChanges  []string   `json:"breaking_changes"`
	ReleaseNotes     string     `json:"release_notes,omitempty"`
	PublishedAt      *time.Time `json:"published_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ReleaseCreate is the payload for registering a new release.
type ReleaseCreate struct {
	Version          string   `json:"version" validate:"required"`
	Track            string   `json:"track,omitempty" validate:"omitempty,oneof=STABLE BETA LTS"`
	Status           string   `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED DEPRECATED"`
	DockerImages     []string `json:"docker_images"`
	RequiresDowntime bool     `json:"requires_downtime"`
	BreakingChanges  []string `json:"breaking_changes"`
	ReleaseNotes     string   `json:"release_notes,omitempty"`
}

// ReleaseUpdate is a partial release update keyed by version.
type ReleaseUpdate struct {
	Status       *string  `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED DEPRECATED"`
	DockerImages []string `json:"docker_images,omitempty"`
	ReleaseNotes *string  `json:"release_notes,omitempty"`
}

// ListReleases returns all releases with pagination.
func (c *Client) ListReleases(ctx context.Context, skip, limit int) ([]Release, error) {
	var releases []Release
	if err := c.get(ctx, "/releases/", pageQuery(skip, limit), &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

// CreateRelease registers a new release.
func (c *Client) CreateRelease(ctx context.Context, req ReleaseCreate) (*Release, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var release Release
	if err := c.do(ctx, "POST", "/releases/", nil, req, &release); err != nil {
		return nil, err
	}
	return &release, nil
}

// UpdateRelease applies a partial update to the release with the given version.
func (c *Client) UpdateRelease(ctx context.Context, version string, req ReleaseUpdate) (*Release, error) {
	if err := checkPayload(req); err != nil {
		return nil, err
	}
	var release Release
	if err := c.do(ctx, "PUT", "/releases/"+version, nil, req, &release); err != nil {
		return nil, err
	}
	return &release, nil
}
