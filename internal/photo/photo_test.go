package photo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mvicenzino/kindora-calendar-sub000/internal/config"
)

type stubPresigner struct {
	lastKey string
}

func (p *stubPresigner) PresignPutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	p.lastKey = *input.Key
	return &v4PresignedRequest{URL: "https://signed.example.com/" + *input.Key, Method: "PUT"}, nil
}

func TestServiceDisabledWithoutConfig(t *testing.T) {
	svc := NewService(config.S3Config{}, time.Minute)
	if svc.Enabled() {
		t.Error("expected disabled service with empty config")
	}
	if _, err := svc.NewUpload(context.Background(), "fam-1", "evt-1", "image/png"); err == nil {
		t.Error("expected error from disabled service")
	}
}

func TestNewUpload(t *testing.T) {
	stub := &stubPresigner{}
	svc := &Service{
		presigner: stub,
		bucket:    "kindora-photos",
		region:    "us-east-1",
		ttl:       15 * time.Minute,
	}

	up, err := svc.NewUpload(context.Background(), "fam-1", "evt-9", "image/jpeg")
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}

	if !strings.HasPrefix(stub.lastKey, "photos/fam-1/evt-9/") {
		t.Errorf("key = %q, want photos/fam-1/evt-9/ prefix", stub.lastKey)
	}
	if !strings.HasSuffix(stub.lastKey, ".jpg") {
		t.Errorf("key = %q, want .jpg suffix", stub.lastKey)
	}
	if up.UploadURL == "" || up.ObjectURL == "" {
		t.Error("expected non-empty URLs")
	}
	if !strings.Contains(up.ObjectURL, "kindora-photos") {
		t.Errorf("object URL %q missing bucket", up.ObjectURL)
	}
	if up.ExpiresIn != 900 {
		t.Errorf("ExpiresIn = %d, want 900", up.ExpiresIn)
	}
}

func TestObjectURLCustomEndpoint(t *testing.T) {
	svc := &Service{bucket: "photos", endpoint: "https://minio.local:9000/", region: "us-east-1"}
	got := svc.objectURL("photos/fam/evt/x.png")
	want := "https://minio.local:9000/photos/photos/fam/evt/x.png"
	if got != want {
		t.Errorf("objectURL = %q, want %q", got, want)
	}
}
