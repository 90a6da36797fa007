package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/glabrego/tagdeck/internal/permission"
	"github.com/glabrego/tagdeck/internal/tag"
)

type fakeRepo struct {
	active  map[uuid.UUID]string
	grants  map[uuid.UUID][]string
	loadErr error
}

func (f *fakeRepo) ActiveTag(_ context.Context, v uuid.UUID) (string, error) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	return f.active[v], nil
}

func (f *fakeRepo) Grant(_ context.Context, v uuid.UUID, p string) error {
	f.grants[v] = append(f.grants[v], p)
	return nil
}

func (f *fakeRepo) Revoke(_ context.Context, v uuid.UUID, p string) error {
	kept := f.grants[v][:0]
	for _, g := range f.grants[v] {
		if g != p {
			kept = append(kept, g)
		}
	}
	f.grants[v] = kept
	return nil
}

func (f *fakeRepo) Grants(_ context.Context, v uuid.UUID) ([]string, error) {
	return f.grants[v], nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, uuid.UUID) {
	t.Helper()
	cat, err := tag.NewCatalog([]tag.Tag{
		{ID: "free", Name: "Free"},
		{ID: "vip", Name: "VIP", Display: "[VIP]", Permission: "tags.vip"},
		{ID: "staff", Name: "Staff", Permission: "tags.staff"},
	})
	if err != nil {
		t.Fatalf("NewCatalog returned error: %v", err)
	}
	repo := &fakeRepo{active: map[uuid.UUID]string{}, grants: map[uuid.UUID][]string{}}
	gate := permission.NewGate(repo, nil)
	return NewService(cat, gate, repo, nil), repo, uuid.New()
}

func TestService_ViewerTags_FiltersByPermission(t *testing.T) {
	svc, repo, viewer := newTestService(t)
	ctx := context.Background()

	tags, err := svc.ViewerTags(ctx, viewer)
	if err != nil {
		t.Fatalf("ViewerTags returned error: %v", err)
	}
	if got := tag.IDs(tags); len(got) != 1 || got[0] != "free" {
		t.Fatalf("unexpected tags without grants: %v", got)
	}

	repo.grants[viewer] = []string{"tags.*"}
	tags, _ = svc.ViewerTags(ctx, viewer)
	if got := tag.IDs(tags); len(got) != 3 || got[1] != "vip" {
		t.Fatalf("unexpected tags with wildcard grant: %v", got)
	}
}

func TestService_ViewerTags_CancelledContext(t *testing.T) {
	svc, _, viewer := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.ViewerTags(ctx, viewer); err == nil {
		t.Fatal("expected context error")
	}
}

func TestService_ActiveTag(t *testing.T) {
	svc, repo, viewer := newTestService(t)
	ctx := context.Background()

	if _, ok, err := svc.ActiveTag(ctx, viewer); err != nil || ok {
		t.Fatalf("expected no active tag, ok=%v err=%v", ok, err)
	}

	repo.active[viewer] = "vip"
	label, err := svc.DisplayTag(ctx, viewer)
	if err != nil {
		t.Fatalf("DisplayTag returned error: %v", err)
	}
	if label != "[VIP]" {
		t.Fatalf("unexpected label: %q", label)
	}

	repo.active[viewer] = "removed"
	if _, ok, err := svc.ActiveTag(ctx, viewer); err != nil || ok {
		t.Fatalf("expected unknown stored tag to read as none, ok=%v err=%v", ok, err)
	}
}

func TestService_ActiveTag_StorageError(t *testing.T) {
	svc, repo, viewer := newTestService(t)
	repo.loadErr = errors.New("db locked")
	if _, _, err := svc.ActiveTag(context.Background(), viewer); err == nil {
		t.Fatal("expected storage error")
	}
}

func TestService_GrantAndRevoke(t *testing.T) {
	svc, _, viewer := newTestService(t)
	ctx := context.Background()

	if err := svc.Grant(ctx, viewer, "tags.vip"); err != nil {
		t.Fatalf("Grant returned error: %v", err)
	}
	if err := svc.Grant(ctx, viewer, "tags.staff"); err != nil {
		t.Fatalf("Grant returned error: %v", err)
	}
	if err := svc.Revoke(ctx, viewer, "tags.vip"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	grants, err := svc.Grants(ctx, viewer)
	if err != nil {
		t.Fatalf("Grants returned error: %v", err)
	}
	if len(grants) != 1 || grants[0] != "tags.staff" {
		t.Fatalf("unexpected grants: %v", grants)
	}
}

func TestService_Lookup(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Lookup(" vip "); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if _, err := svc.Lookup("nope"); !errors.Is(err, tag.ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}
