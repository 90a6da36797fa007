package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/tag"
)

type Catalog interface {
	All() []tag.Tag
	Lookup(id string) (tag.Tag, error)
}

type PermissionGate interface {
	HasPermission(ctx context.Context, viewer uuid.UUID, permission string) bool
}

type Repository interface {
	ActiveTag(ctx context.Context, viewer uuid.UUID) (string, error)
	Grant(ctx context.Context, viewer uuid.UUID, permission string) error
	Revoke(ctx context.Context, viewer uuid.UUID, permission string) error
	Grants(ctx context.Context, viewer uuid.UUID) ([]string, error)
}

// Service answers per-viewer questions about the tag catalog: which tags a
// viewer may use, which one is active, and which permissions they hold.
type Service struct {
	catalog Catalog
	gate    PermissionGate
	repo    Repository
	logger  *slog.Logger
}

func NewService(catalog Catalog, gate PermissionGate, repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{catalog: catalog, gate: gate, repo: repo, logger: logger}
}

// ViewerTags lists the catalog tags the viewer is entitled to, in catalog
// order.
func (s *Service) ViewerTags(ctx context.Context, viewer uuid.UUID) ([]tag.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := s.catalog.All()
	out := make([]tag.Tag, 0, len(all))
	for _, t := range all {
		if s.gate.HasPermission(ctx, viewer, t.Permission) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) Lookup(id string) (tag.Tag, error) {
	return s.catalog.Lookup(strings.TrimSpace(id))
}

// ActiveTag returns the viewer's active tag. A stored id that no longer
// exists in the catalog reads as no active tag.
func (s *Service) ActiveTag(ctx context.Context, viewer uuid.UUID) (tag.Tag, bool, error) {
	id, err := s.repo.ActiveTag(ctx, viewer)
	if err != nil {
		return tag.Tag{}, false, fmt.Errorf("load active tag: %w", err)
	}
	if id == "" {
		return tag.Tag{}, false, nil
	}
	t, err := s.catalog.Lookup(id)
	if errors.Is(err, tag.ErrUnknownTag) {
		s.logger.Warn("active tag missing from catalog", "viewer", viewer, "tag", id)
		return tag.Tag{}, false, nil
	}
	if err != nil {
		return tag.Tag{}, false, err
	}
	return t, true, nil
}

// DisplayTag is the label of the viewer's active tag, or "" when none.
func (s *Service) DisplayTag(ctx context.Context, viewer uuid.UUID) (string, error) {
	t, ok, err := s.ActiveTag(ctx, viewer)
	if err != nil || !ok {
		return "", err
	}
	return t.Label(0), nil
}

func (s *Service) Grant(ctx context.Context, viewer uuid.UUID, permission string) error {
	if err := s.repo.Grant(ctx, viewer, permission); err != nil {
		return fmt.Errorf("save grant: %w", err)
	}
	s.logger.Info("permission granted", "viewer", viewer, "permission", permission)
	return nil
}

func (s *Service) Revoke(ctx context.Context, viewer uuid.UUID, permission string) error {
	if err := s.repo.Revoke(ctx, viewer, permission); err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	s.logger.Info("permission revoked", "viewer", viewer, "permission", permission)
	return nil
}

func (s *Service) Grants(ctx context.Context, viewer uuid.UUID) ([]string, error) {
	grants, err := s.repo.Grants(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}
	return grants, nil
}
