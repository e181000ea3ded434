package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mbeckett/visage/internal/notifier"
	"github.com/mbeckett/visage/internal/provider"
	"github.com/mbeckett/visage/internal/storage"
)

// SentOTP records one delivered code.
type SentOTP struct {
	Email string
	Code  string
}

// FakeNotifier records sent codes instead of delivering them.
type FakeNotifier struct {
	mu   sync.Mutex
	Sent []SentOTP
	Fail bool
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (f *FakeNotifier) SendOTP(ctx context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return errors.New("fake notifier failure")
	}
	f.Sent = append(f.Sent, SentOTP{Email: email, Code: code})
	return nil
}

// LastCode returns the most recently sent code for the email, or "".
func (f *FakeNotifier) LastCode(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Sent) - 1; i >= 0; i-- {
		if f.Sent[i].Email == email {
			return f.Sent[i].Code
		}
	}
	return ""
}

var _ notifier.Notifier = (*FakeNotifier)(nil)

// FakeGenerator returns canned image bytes.
type FakeGenerator struct {
	mu    sync.Mutex
	Data  []byte
	Err   error
	Calls int
}

func NewFakeGenerator() *FakeGenerator {
	return &FakeGenerator{Data: []byte("fake-image-bytes")}
}

func (f *FakeGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Data, nil
}

func (f *FakeGenerator) ModelName() string {
	return "fake-model"
}

var _ provider.Generator = (*FakeGenerator)(nil)

// FakeBlobStore keeps uploads in memory.
type FakeBlobStore struct {
	mu         sync.Mutex
	Uploads    map[string][]byte
	Deleted    []string
	FailUpload bool
	FailDelete bool
	counter    int
}

func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{Uploads: make(map[string][]byte)}
}

func (f *FakeBlobStore) Upload(ctx context.Context, data []byte) (*storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpload {
		return nil, errors.New("fake upload failure")
	}
	f.counter++
	key := fmt.Sprintf("ai-generated/fake-%d.png", f.counter)
	f.Uploads[key] = data
	return &storage.UploadResult{
		URL:    "https://blobs.example.com/" + key,
		Key:    key,
		Width:  768,
		Height: 768,
		Format: "png",
	}, nil
}

func (f *FakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDelete {
		return errors.New("fake delete failure")
	}
	delete(f.Uploads, key)
	f.Deleted = append(f.Deleted, key)
	return nil
}

// UploadCount returns the number of blobs currently stored.
func (f *FakeBlobStore) UploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Uploads)
}

var _ storage.BlobStore = (*FakeBlobStore)(nil)
