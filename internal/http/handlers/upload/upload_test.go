package upload

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/hornhub/hornhub-service/internal/catalog"
	"github.com/hornhub/hornhub-service/internal/events"
	"github.com/hornhub/hornhub-service/internal/http/middleware"
	"github.com/hornhub/hornhub-service/internal/kvstore"
	"github.com/hornhub/hornhub-service/internal/objectstore"
	"github.com/hornhub/hornhub-service/internal/profiles"
	mediaService "github.com/hornhub/hornhub-service/internal/services/media"
	"github.com/hornhub/hornhub-service/internal/session"
)

type fixture struct {
	handlers *Handlers
	catalog  *catalog.Catalog
	sessions *session.Store
}

func setup(t *testing.T) (*fixture, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := kvstore.NewRedisStore(redisClient)

	cat := catalog.New(kv)
	sessions := session.NewStore(kv, profiles.Default())
	gateway := mediaService.NewGateway(objectstore.NewMemoryStore("http://objects.local"), cat, sessions, events.NopPublisher{})

	cleanup := func() {
		redisClient.Close()
		mr.Close()
	}

	return &fixture{handlers: NewHandlers(gateway), catalog: cat, sessions: sessions}, cleanup
}

// multipartBody builds a form with one file part and optional fields.
func multipartBody(t *testing.T, filename, contentType string, payload []byte, fields map[string]string) (io.Reader, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("Failed to create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("Failed to write payload: %v", err)
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	return &buf, writer.FormDataContentType()
}

func authedUpload(t *testing.T, target, filename, contentType string, payload []byte, fields map[string]string) *http.Request {
	body, formContentType := multipartBody(t, filename, contentType, payload, fields)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", formContentType)
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user1")
	return req.WithContext(ctx)
}

func TestVideo_Success(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()

	req := authedUpload(t, "/upload/video", "clip.mp4", "video/mp4",
		[]byte("video bytes"), map[string]string{"title": "my clip"})
	rec := httptest.NewRecorder()

	f.handlers.Video()(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	videos := f.catalog.Videos(req.Context())
	if len(videos) != 1 || videos[0].Title != "my clip" || videos[0].UploadedBy != "user1" {
		t.Fatalf("Expected cataloged video, got %+v", videos)
	}
}

func TestVideo_MissingTitleRejected(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()

	req := authedUpload(t, "/upload/video", "clip.mp4", "video/mp4", []byte("video bytes"), nil)
	rec := httptest.NewRecorder()

	f.handlers.Video()(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "title") {
		t.Fatalf("Expected inline title message, got %s", rec.Body.String())
	}
	if len(f.catalog.All(req.Context())) != 0 {
		t.Fatal("Expected nothing cataloged for a rejected upload")
	}
}

func TestImage_WrongMimeRejected(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()

	req := authedUpload(t, "/upload/image", "clip.mp4", "video/mp4", []byte("bytes"), nil)
	rec := httptest.NewRecorder()

	f.handlers.Image()(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestUpload_RequiresAuth(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()

	body, formContentType := multipartBody(t, "pic.png", "image/png", []byte("bytes"), nil)
	req := httptest.NewRequest(http.MethodPost, "/upload/image", body)
	req.Header.Set("Content-Type", formContentType)
	rec := httptest.NewRecorder()

	f.handlers.Image()(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/upload/image", strings.NewReader(""))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "user1")
	rec := httptest.NewRecorder()

	f.handlers.Image()(rec, req.WithContext(ctx))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestProfilePicture_UpdatesSession(t *testing.T) {
	f, cleanup := setup(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := f.sessions.Login(ctx, "Hadil"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	req := authedUpload(t, "/upload/profile-picture", "me.jpg", "image/jpeg", []byte("jpeg bytes"), nil)
	rec := httptest.NewRecorder()

	f.handlers.ProfilePicture()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	current := f.sessions.CurrentUser(ctx)
	if current == nil || current.ProfilePicture != "http://objects.local/profiles/user1.jpg" {
		t.Fatalf("Expected session avatar updated, got %+v", current)
	}

	// Avatars do not go through the media catalog
	if len(f.catalog.All(ctx)) != 0 {
		t.Fatal("Expected no catalog entry for a profile picture")
	}
}
