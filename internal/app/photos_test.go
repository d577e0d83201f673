package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nevado_reviews/internal/domain"
)

func uploadInput() UploadInput {
	body := "fake image bytes"
	return UploadInput{
		Filename: "Terraza.JPG",
		MimeType: "image/jpeg",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	}
}

func TestUploadPhoto(t *testing.T) {
	photos := newFakePhotoRepo()
	blobs := newFakeBlobStore()
	cache := newFakeCache()
	cache.data[statsCacheKey] = []byte(`{}`)
	svc := NewPhotoService(photos, blobs, cache)

	p, err := svc.Upload(context.Background(), uploadInput())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if p.StorageKey != p.ID+".jpg" {
		t.Fatalf("storage key must be id plus lowercased extension, got %q", p.StorageKey)
	}
	if p.URL != "https://photos.test/"+p.StorageKey {
		t.Fatalf("unexpected url %q", p.URL)
	}
	if _, ok := blobs.objects[p.StorageKey]; !ok {
		t.Fatal("blob not written")
	}
	if _, ok := photos.photos[p.ID]; !ok {
		t.Fatal("metadata row not written")
	}
	if _, ok := cache.data[statsCacheKey]; ok {
		t.Fatal("stats cache not invalidated after upload")
	}
}

func TestUploadPhotoRejectsMime(t *testing.T) {
	svc := NewPhotoService(newFakePhotoRepo(), newFakeBlobStore(), nil)
	in := uploadInput()
	in.Filename = "plano.pdf"
	in.MimeType = "application/pdf"

	_, err := svc.Upload(context.Background(), in)
	ve, ok := domain.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(ve.Violations[0], "Tipo de archivo") {
		t.Fatalf("unexpected message: %v", ve.Violations)
	}
}

func TestUploadPhotoRejectsOversize(t *testing.T) {
	svc := NewPhotoService(newFakePhotoRepo(), newFakeBlobStore(), nil)
	in := uploadInput()
	in.Size = domain.MaxPhotoSizeBytes + 1

	_, err := svc.Upload(context.Background(), in)
	if _, ok := domain.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadPhotoAtSizeCap(t *testing.T) {
	svc := NewPhotoService(newFakePhotoRepo(), newFakeBlobStore(), nil)
	in := uploadInput()
	in.Size = domain.MaxPhotoSizeBytes

	if _, err := svc.Upload(context.Background(), in); err != nil {
		t.Fatalf("exactly-at-cap upload must pass: %v", err)
	}
}

func TestUploadPhotoLinksReview(t *testing.T) {
	photos := newFakePhotoRepo()
	svc := NewPhotoService(photos, newFakeBlobStore(), nil)
	in := uploadInput()
	in.ReviewID = strPtr("rev-1")

	if _, err := svc.Upload(context.Background(), in); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(photos.linked) != 1 || photos.linked[0] != "rev-1" {
		t.Fatalf("review not linked: %v", photos.linked)
	}
}

func TestUploadPhotoLinkFailureIsNotFatal(t *testing.T) {
	photos := newFakePhotoRepo()
	photos.failLink = true
	svc := NewPhotoService(photos, newFakeBlobStore(), nil)
	in := uploadInput()
	in.ReviewID = strPtr("rev-1")

	p, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatalf("link failure must not fail the upload: %v", err)
	}
	if _, ok := photos.photos[p.ID]; !ok {
		t.Fatal("photo row must survive a failed link")
	}
}

func TestUploadPhotoBlobFailure(t *testing.T) {
	blobs := newFakeBlobStore()
	blobs.failPut = true
	photos := newFakePhotoRepo()
	svc := NewPhotoService(photos, blobs, nil)

	if _, err := svc.Upload(context.Background(), uploadInput()); err == nil {
		t.Fatal("expected error from blob store")
	}
	if len(photos.photos) != 0 {
		t.Fatal("no metadata row may exist when the blob write failed")
	}
}

func TestDeletePhoto(t *testing.T) {
	photos := newFakePhotoRepo()
	blobs := newFakeBlobStore()
	svc := NewPhotoService(photos, blobs, nil)
	in := uploadInput()
	in.ReviewID = strPtr("rev-2")
	p, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(blobs.removed) != 1 || blobs.removed[0] != p.StorageKey {
		t.Fatalf("blob not removed: %v", blobs.removed)
	}
	if _, ok := photos.photos[p.ID]; ok {
		t.Fatal("metadata row not deleted")
	}
	if len(photos.unlinked) != 1 || photos.unlinked[0] != "rev-2" {
		t.Fatalf("review pointer not cleared: %v", photos.unlinked)
	}
}

func TestDeleteMissingPhoto(t *testing.T) {
	svc := NewPhotoService(newFakePhotoRepo(), newFakeBlobStore(), nil)
	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
