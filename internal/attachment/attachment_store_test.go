package attachment_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"e-approval/internal/attachment"
	attachmenterrors "e-approval/internal/attachment/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
	pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
)

func newStore(t *testing.T, maxSize int64) (attachment.Store, string) {
	dir := t.TempDir()
	store, err := attachment.NewLocalStore(dir, "http://files.local/uploads/", maxSize, zap.NewNop())
	require.NoError(t, err)
	return store, dir
}

func TestLocalStore_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("stores pdf and returns public url", func(t *testing.T) {
		store, dir := newStore(t, 0)

		stored, err := store.Store(ctx, pdfBytes, "application/pdf", "quotation v2.pdf")

		require.NoError(t, err)
		assert.Equal(t, "application/pdf", stored.MimeType)
		assert.Equal(t, "quotation v2.pdf", stored.OriginalName)
		assert.Equal(t, int64(len(pdfBytes)), stored.Size)
		assert.True(t, strings.HasPrefix(stored.URL, "http://files.local/uploads/"))
		assert.True(t, strings.HasSuffix(stored.URL, "-quotation_v2.pdf"))

		rel := strings.TrimPrefix(stored.URL, "http://files.local/uploads/")
		onDisk, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, pdfBytes, onDisk)
	})

	t.Run("accepts images by sniffed type", func(t *testing.T) {
		store, _ := newStore(t, 0)

		stored, err := store.Store(ctx, pngBytes, "application/octet-stream", "photo.png")

		require.NoError(t, err)
		assert.Equal(t, "image/png", stored.MimeType)
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		store, _ := newStore(t, 0)

		_, err := store.Store(ctx, []byte("just some notes"), "text/plain", "notes.txt")

		assert.ErrorIs(t, err, attachmenterrors.ErrUnsupportedType)
	})

	t.Run("rejects spoofed declared type", func(t *testing.T) {
		store, _ := newStore(t, 0)

		_, err := store.Store(ctx, []byte("#!/bin/sh\necho hi\n"), "application/pdf", "run.pdf")

		assert.ErrorIs(t, err, attachmenterrors.ErrUnsupportedType)
	})

	t.Run("rejects oversize file", func(t *testing.T) {
		store, _ := newStore(t, 16)

		_, err := store.Store(ctx, pdfBytes, "application/pdf", "big.pdf")

		assert.ErrorIs(t, err, attachmenterrors.ErrFileTooLarge)
	})

	t.Run("rejects empty file", func(t *testing.T) {
		store, _ := newStore(t, 0)

		_, err := store.Store(ctx, nil, "application/pdf", "empty.pdf")

		assert.ErrorIs(t, err, attachmenterrors.ErrEmptyFile)
	})
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "passwd", attachment.SanitizeName("../../etc/passwd"))
	assert.Equal(t, "my_file_1_.docx", attachment.SanitizeName("my file (1).docx"))
	assert.Equal(t, "file", attachment.SanitizeName("..."))
}

func TestIsAllowed(t *testing.T) {
	assert.True(t, attachment.IsAllowed("application/pdf"))
	assert.True(t, attachment.IsAllowed("image/jpeg"))
	assert.True(t, attachment.IsAllowed("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.False(t, attachment.IsAllowed("application/zip"))
	assert.False(t, attachment.IsAllowed("text/html; charset=utf-8"))
}
