package permission

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Wildcard grants every permission.
const Wildcard = "*"

// GrantSource returns the permission nodes held by a viewer.
type GrantSource interface {
	Grants(ctx context.Context, viewer uuid.UUID) ([]string, error)
}

// Matches reports whether any grant covers perm. A grant matches exactly,
// as "*", or as "prefix.*" covering every node below prefix. Comparison
// ignores case. The empty permission is always held.
func Matches(grants []string, perm string) bool {
	perm = strings.ToLower(strings.TrimSpace(perm))
	if perm == "" {
		return true
	}
	for _, g := range grants {
		g = strings.ToLower(strings.TrimSpace(g))
		switch {
		case g == "":
			continue
		case g == Wildcard, g == perm:
			return true
		case strings.HasSuffix(g, ".*"):
			if strings.HasPrefix(perm, strings.TrimSuffix(g, "*")) {
				return true
			}
		}
	}
	return false
}

// Gate answers permission checks from a GrantSource. Lookup failures deny.
type Gate struct {
	source GrantSource
	logger *slog.Logger
}

func NewGate(source GrantSource, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{source: source, logger: logger}
}

func (g *Gate) HasPermission(ctx context.Context, viewer uuid.UUID, perm string) bool {
	if strings.TrimSpace(perm) == "" {
		return true
	}
	grants, err := g.source.Grants(ctx, viewer)
	if err != nil {
		g.logger.Warn("permission lookup failed", "viewer", viewer, "permission", perm, "error", err)
		return false
	}
	return Matches(grants, perm)
}

// Static is a fixed grant table, used for the console viewer and in tests.
type Static map[uuid.UUID][]string

func (s Static) Grants(_ context.Context, viewer uuid.UUID) ([]string, error) {
	return s[viewer], nil
}
