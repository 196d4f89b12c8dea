package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"docuchat-cli/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memFile(name, contentType, content string) FileUpload {
	return FileUpload{
		Name:        name,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func newUploadFixture(remote *fakeRemote) (IUploadService, IDocumentService) {
	docs := NewDocumentService(remote, nopLogger{})
	return NewUploadService(remote, docs, nopLogger{}), docs
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		want        fileKind
	}{
		{"report.pdf", "application/pdf", kindPDF},
		{"report.pdf", "application/pdf; charset=binary", kindPDF},
		{"scan.png", "image/png", kindImage},
		{"photo.JPG", "image/jpeg", kindImage},
		{"anim.webp", "image/webp", kindImage},
		// Spoofed MIME: declared image but the extension gives it away.
		{"malware.exe", "image/png", kindInvalid},
		// Image type not in the allow list.
		{"vector.svg", "image/svg+xml", kindInvalid},
		{"notes.txt", "text/plain", kindInvalid},
		{"mystery", "", kindInvalid},
	}
	for _, tc := range cases {
		got := classify(FileUpload{Name: tc.name, ContentType: tc.contentType})
		assert.Equal(t, tc.want, got, "%s (%s)", tc.name, tc.contentType)
	}
}

func TestInvalidFileRejectsWholeBatch(t *testing.T) {
	remote := newFakeRemote()
	svc, _ := newUploadFixture(remote)

	result, err := svc.Upload(context.Background(), []FileUpload{
		memFile("a.pdf", "application/pdf", "%PDF"),
		memFile("b.png", "image/png", "png"),
		memFile("c.txt", "text/plain", "nope"),
	})

	require.Error(t, err)
	assert.Nil(t, result)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"c.txt"}, verr.InvalidFiles)
	assert.Contains(t, err.Error(), "c.txt")

	// Zero network calls for the whole batch.
	assert.Equal(t, 0, remote.totalCalls())
}

func TestBatchUploadsAllFilesAndRefreshesOnce(t *testing.T) {
	remote := newFakeRemote()
	svc, _ := newUploadFixture(remote)

	result, err := svc.Upload(context.Background(), []FileUpload{
		memFile("a.pdf", "application/pdf", "%PDF"),
		memFile("b.pdf", "application/pdf", "%PDF"),
		memFile("c.png", "image/png", "png"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Succeeded)
	assert.Empty(t, result.Failures)

	assert.Equal(t, 2, remote.callCount("UploadPDF"))
	assert.Equal(t, 1, remote.callCount("UploadImage"))
	// One refresh for the whole batch, not one per file.
	assert.Equal(t, 1, remote.callCount("ListDocuments"))
}

func TestPartialFailureIsReportedPerFile(t *testing.T) {
	remote := newFakeRemote()
	remote.uploadPDFFn = func(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error) {
		if filename == "bad.pdf" {
			return nil, errors.New("boom")
		}
		return &dto.UploadResponse{DocumentId: filename}, nil
	}
	svc, _ := newUploadFixture(remote)

	result, err := svc.Upload(context.Background(), []FileUpload{
		memFile("good.pdf", "application/pdf", "%PDF"),
		memFile("bad.pdf", "application/pdf", "%PDF"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bad.pdf", result.Failures[0].Name)
	assert.Equal(t, 1, remote.callCount("ListDocuments"))
}

func TestAllFailuresSkipRefresh(t *testing.T) {
	remote := newFakeRemote()
	remote.uploadPDFFn = func(ctx context.Context, filename string, content io.Reader) (*dto.UploadResponse, error) {
		return nil, errors.New("boom")
	}
	svc, _ := newUploadFixture(remote)

	result, err := svc.Upload(context.Background(), []FileUpload{
		memFile("a.pdf", "application/pdf", "%PDF"),
		memFile("b.pdf", "application/pdf", "%PDF"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	assert.Len(t, result.Failures, 2)
	assert.Equal(t, 0, remote.callCount("ListDocuments"))
}

func TestEmptyBatchIsANoop(t *testing.T) {
	remote := newFakeRemote()
	svc, _ := newUploadFixture(remote)

	result, err := svc.Upload(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 0, remote.totalCalls())
}

func TestUnopenableFileCountsAsFailure(t *testing.T) {
	remote := newFakeRemote()
	svc, _ := newUploadFixture(remote)

	result, err := svc.Upload(context.Background(), []FileUpload{
		{
			Name:        "gone.pdf",
			ContentType: "application/pdf",
			Open: func() (io.ReadCloser, error) {
				return nil, errors.New("no such file")
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Succeeded)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "gone.pdf", result.Failures[0].Name)
	assert.Equal(t, 0, remote.callCount("UploadPDF"))
}
