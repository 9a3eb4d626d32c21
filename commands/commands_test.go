package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rankforge/site-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	hashPasswordCmd.SetOut(&out)
	hashPasswordCmd.SetIn(strings.NewReader("s3cret\n"))
	require.NoError(t, hashPasswordCmd.RunE(hashPasswordCmd, nil))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	out.Reset()
	require.NoError(t, hashPasswordCmd.RunE(hashPasswordCmd, []string{"other"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out.String())), []byte("other")))
}

func TestMediaBackend(t *testing.T) {
	dir := t.TempDir()
	backend, served, err := mediaBackend(context.Background(), map[string]string{
		"STORAGE_BACKEND": "local",
		"UPLOAD_DIR":      dir,
	})
	require.NoError(t, err)
	assert.Equal(t, dir, served)
	assert.IsType(t, &storage.LocalBackend{}, backend)

	_, _, err = mediaBackend(context.Background(), map[string]string{"STORAGE_BACKEND": "s3"})
	assert.ErrorContains(t, err, "S3_BUCKET")

	_, _, err = mediaBackend(context.Background(), map[string]string{"STORAGE_BACKEND": "ftp"})
	assert.Error(t, err)
}

func TestRecaptchaScore(t *testing.T) {
	assert.InDelta(t, 0.5, recaptchaScore(map[string]string{}), 1e-9)
	assert.InDelta(t, 0.7, recaptchaScore(map[string]string{"RECAPTCHA_MIN_SCORE_PERCENT": "70"}), 1e-9)
}
