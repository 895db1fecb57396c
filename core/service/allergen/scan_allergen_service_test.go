package allergen

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"scan_server/core/domain"
	"scan_server/pkg/apperr"
)

// fakeProfileRepo is an in-memory AllergenProfileRepository.
type fakeProfileRepo struct {
	profiles map[string][]*domain.AllergenProfile // userID -> profiles
	failWith error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string][]*domain.AllergenProfile)}
}

func (r *fakeProfileRepo) List(ctx context.Context, userID string) ([]*domain.AllergenProfile, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return append([]*domain.AllergenProfile(nil), r.profiles[userID]...), nil
}

func (r *fakeProfileRepo) Get(ctx context.Context, userID, profileID string) (*domain.AllergenProfile, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, p := range r.profiles[userID] {
		if p.ID == profileID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) Create(ctx context.Context, userID string, profile *domain.AllergenProfile) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.profiles[userID] = append(r.profiles[userID], profile)
	return nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, userID string, profile *domain.AllergenProfile) error {
	if r.failWith != nil {
		return r.failWith
	}
	for i, p := range r.profiles[userID] {
		if p.ID == profile.ID {
			r.profiles[userID][i] = profile
			return nil
		}
	}
	return errors.New("no rows affected")
}

func (r *fakeProfileRepo) Delete(ctx context.Context, userID, profileID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	for i, p := range r.profiles[userID] {
		if p.ID == profileID {
			r.profiles[userID] = append(r.profiles[userID][:i], r.profiles[userID][i+1:]...)
			return nil
		}
	}
	return nil
}

func testClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	return apperr.AsAppError(err).Code
}

// TestListProfilesCreatesDefault tests lazy materialization of the default
// profile on first access.
func TestListProfilesCreatesDefault(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo, testClock)

	profiles, err := svc.ListProfiles(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("profiles = %+v, want the default only", profiles)
	}
	if profiles[0].ID != domain.DefaultProfileID || !profiles[0].IsDefault {
		t.Errorf("default profile = %+v", profiles[0])
	}

	// Second call must not create a duplicate.
	profiles, err = svc.ListProfiles(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 {
		t.Errorf("profiles = %+v, want still one", profiles)
	}
}

// TestCreateProfileQuota tests per-tier profile quotas, default included.
func TestCreateProfileQuota(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo, testClock)
	ctx := context.Background()

	// Free tier: the default profile fills the quota of 1.
	_, err := svc.CreateProfile(ctx, "u1", domain.TierFree, "Kid", nil)
	if code := appCode(t, err); code != apperr.CodeQuotaExceeded {
		t.Errorf("free tier create error code = %s, want QUOTA_EXCEEDED", code)
	}

	// Plus tier: two family members on top of the default.
	for _, name := range []string{"Kid", "Partner"} {
		if _, err := svc.CreateProfile(ctx, "u2", domain.TierPlus, name, nil); err != nil {
			t.Fatalf("plus tier create %q failed: %v", name, err)
		}
	}
	_, err = svc.CreateProfile(ctx, "u2", domain.TierPlus, "One Too Many", nil)
	if code := appCode(t, err); code != apperr.CodeQuotaExceeded {
		t.Errorf("plus tier overflow error code = %s, want QUOTA_EXCEEDED", code)
	}

	// Unknown tier falls back to the free quota.
	_, err = svc.CreateProfile(ctx, "u3", domain.Tier("enterprise"), "Kid", nil)
	if code := appCode(t, err); code != apperr.CodeQuotaExceeded {
		t.Errorf("unknown tier error code = %s, want QUOTA_EXCEEDED", code)
	}
}

// TestCreateProfileValidation tests the name requirement and allergen id
// normalization.
func TestCreateProfileValidation(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo, testClock)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, "u1", domain.TierPro, "", []string{"milk"})
	if code := appCode(t, err); code != apperr.CodeMissingField {
		t.Errorf("empty name error code = %s, want MISSING_FIELD", code)
	}

	profile, err := svc.CreateProfile(ctx, "u1", domain.TierPro, "Kid", []string{"milk", "bogus", "milk", "peanut"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"milk", "peanut"}
	if !reflect.DeepEqual(profile.Allergens, want) {
		t.Errorf("allergens = %v, want normalized %v", profile.Allergens, want)
	}
	if profile.IsDefault {
		t.Error("created profile must not be default")
	}
	if profile.ID == "" || profile.ID == domain.DefaultProfileID {
		t.Errorf("profile id = %q, want a generated id", profile.ID)
	}
}

// TestUpdateProfile tests partial updates.
func TestUpdateProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo, testClock)
	ctx := context.Background()

	created, err := svc.CreateProfile(ctx, "u1", domain.TierPro, "Kid", []string{"milk"})
	if err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	// Rename only: allergens untouched.
	updated, err := svc.UpdateProfile(ctx, "u1", created.ID, "Daughter", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Daughter" {
		t.Errorf("name = %q, want %q", updated.Name, "Daughter")
	}
	if !reflect.DeepEqual(updated.Allergens, []string{"milk"}) {
		t.Errorf("allergens = %v, want unchanged", updated.Allergens)
	}

	// Replace the allergen set, keep the name.
	updated, err = svc.UpdateProfile(ctx, "u1", created.ID, "", []string{"egg", "soy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Daughter" {
		t.Errorf("name = %q, want kept", updated.Name)
	}
	if !reflect.DeepEqual(updated.Allergens, []string{"egg", "soy"}) {
		t.Errorf("allergens = %v, want replaced", updated.Allergens)
	}

	_, err = svc.UpdateProfile(ctx, "u1", "missing", "X", nil)
	if code := appCode(t, err); code != apperr.CodeNotFound {
		t.Errorf("missing profile error code = %s, want NOT_FOUND", code)
	}
}

// TestDeleteProfile tests the default-profile protection.
func TestDeleteProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo, testClock)
	ctx := context.Background()

	if _, err := svc.ListProfiles(ctx, "u1"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	err := svc.DeleteProfile(ctx, "u1", domain.DefaultProfileID)
	if code := appCode(t, err); code != apperr.CodeForbidden {
		t.Errorf("default delete error code = %s, want FORBIDDEN", code)
	}

	err = svc.DeleteProfile(ctx, "u1", "missing")
	if code := appCode(t, err); code != apperr.CodeNotFound {
		t.Errorf("missing delete error code = %s, want NOT_FOUND", code)
	}

	created, err := svc.CreateProfile(ctx, "u1", domain.TierPro, "Kid", nil)
	if err != nil {
		t.Fatalf("setup create failed: %v", err)
	}
	if err := svc.DeleteProfile(ctx, "u1", created.ID); err != nil {
		t.Errorf("delete failed: %v", err)
	}
}

// TestDetectAll tests that only profiles with at least one warning appear.
func TestDetectAll(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewService(repo, testClock)
	ctx := context.Background()

	if _, err := svc.ListProfiles(ctx, "u1"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, "u1", domain.DefaultProfileID, "", []string{"milk"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	kid, err := svc.CreateProfile(ctx, "u1", domain.TierPro, "Kid", []string{"peanut"})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	product := &domain.MergedProduct{
		Name:            "Milk Chocolate",
		IngredientsText: "sugar, cocoa butter, whole milk powder",
	}

	detected, err := svc.DetectAll(ctx, "u1", domain.TierPro, product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detected) != 1 {
		t.Fatalf("detected = %+v, want the default profile only", detected)
	}
	warnings, ok := detected[domain.DefaultProfileID]
	if !ok || len(warnings) != 1 || warnings[0].AllergenID != "milk" {
		t.Errorf("default profile warnings = %+v, want one milk match", warnings)
	}
	if _, ok := detected[kid.ID]; ok {
		t.Error("unaffected profile must not appear in the result")
	}

	safe, err := svc.SafeForEveryone(ctx, "u1", domain.TierPro, product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if safe {
		t.Error("SafeForEveryone = true with a milk warning present")
	}

	clean := &domain.MergedProduct{Name: "Water", IngredientsText: "spring water"}
	safe, err = svc.SafeForEveryone(ctx, "u1", domain.TierPro, clean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !safe {
		t.Error("SafeForEveryone = false for plain water")
	}
}
