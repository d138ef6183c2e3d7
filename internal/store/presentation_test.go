// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"slideforge/internal/models"
	"slideforge/internal/themes"
)

func samplePresentation(userID uuid.UUID) *models.Presentation {
	slide := models.NewSlide()
	slide.Title = "Opening"
	slide.Content = []string{"First point", "Second point"}
	slide.BackgroundImage = "#112233"

	return &models.Presentation{
		ID:     uuid.New(),
		UserID: userID,
		Topic:  "Store round-trip",
		Slides: []models.Slide{slide},
		Theme:  themes.Default(),
		Branding: models.Branding{
			SubTitle:       "Internal",
			CompanyWebsite: "example.com",
		},
	}
}

func TestPresentationStoreRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db, "test-pres-roundtrip@store-test.local")
	s := NewPresentationStore(db)

	p := samplePresentation(user.ID)
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("Create should populate timestamps")
	}

	got, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("FindByID returned nil for existing presentation")
	}

	if got.Topic != p.Topic {
		t.Errorf("topic: got %q, want %q", got.Topic, p.Topic)
	}
	if len(got.Slides) != 1 {
		t.Fatalf("slides: got %d, want 1", len(got.Slides))
	}
	if got.Slides[0].ID != p.Slides[0].ID {
		t.Errorf("slide ID: got %s, want %s", got.Slides[0].ID, p.Slides[0].ID)
	}
	if got.Slides[0].BackgroundImage != "#112233" {
		t.Errorf("background: got %q, want %q", got.Slides[0].BackgroundImage, "#112233")
	}
	if got.Theme.Name != p.Theme.Name {
		t.Errorf("theme: got %q, want %q", got.Theme.Name, p.Theme.Name)
	}
	if got.Branding.CompanyWebsite != "example.com" {
		t.Errorf("branding website: got %q", got.Branding.CompanyWebsite)
	}
}

func TestPresentationStoreUpdate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db, "test-pres-update@store-test.local")
	s := NewPresentationStore(db)

	p := samplePresentation(user.ID)
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	p.Slides = append(p.Slides, models.NewSlide())
	p.Slides[1].Title = "Added later"
	p.Topic = "Updated topic"
	if err := s.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Topic != "Updated topic" {
		t.Errorf("topic: got %q, want %q", got.Topic, "Updated topic")
	}
	if len(got.Slides) != 2 || got.Slides[1].Title != "Added later" {
		t.Errorf("slides not updated: %+v", got.Slides)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("updated_at should advance on Update")
	}
}

func TestPresentationStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db, "test-pres-missing@store-test.local")
	s := NewPresentationStore(db)

	p := samplePresentation(user.ID)
	// Never created.
	err := s.Update(ctx, p)
	if err == nil {
		t.Fatal("Update of a missing presentation should fail")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should say not found: %v", err)
	}
}

func TestPresentationStoreListByUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db, "test-pres-list@store-test.local")
	s := NewPresentationStore(db)

	first := samplePresentation(user.ID)
	second := samplePresentation(user.ID)
	second.Topic = "Second deck"
	for _, p := range []*models.Presentation{first, second} {
		if err := s.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	// Touch the first so it sorts to the front.
	if err := s.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := s.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list): got %d, want 2", len(list))
	}
	if list[0].ID != first.ID {
		t.Errorf("most recently updated should sort first: got %s", list[0].ID)
	}
}

func TestPresentationStoreDelete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := testUser(t, db, "test-pres-delete@store-test.local")
	s := NewPresentationStore(db)

	p := samplePresentation(user.ID)
	if err := s.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}
