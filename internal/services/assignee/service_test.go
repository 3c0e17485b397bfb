package assignee

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
	"github.com/MahdiIsse/project-management-sub001/internal/testutil"
)

const baseURL = "http://localhost:8080/avatars"

func setup(t *testing.T) (Service, string) {
	t.Helper()
	_, repo := testutil.SetupTestDB(t)
	dir := t.TempDir()
	bucket, err := storage.NewBucket(dir, baseURL, 0)
	require.NoError(t, err)
	return NewService(repo.Assignees, bucket, events.NewLocal()), dir
}

func pngReader(t *testing.T) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return &buf
}

func localPath(dir, url string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, baseURL+"/")))
}

func TestCreateAssignee(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)
	ctx := testutil.Ctx("")

	a, err := svc.CreateAssignee(ctx, CreateAssigneeRequest{Name: " Ada Lovelace "})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", a.Name)
	assert.Empty(t, a.AvatarURL)

	_, err = svc.CreateAssignee(ctx, CreateAssigneeRequest{Name: ""})
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = svc.CreateAssignee(ctx, CreateAssigneeRequest{Name: "x", AvatarURL: "ftp://nope"})
	assert.ErrorIs(t, err, ErrInvalidAvatarURL)

	list, err := svc.ListAssignees(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateAssignee_ClearsAvatar(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)
	ctx := testutil.Ctx("")

	a, err := svc.CreateAssignee(ctx, CreateAssigneeRequest{Name: "Linus", AvatarURL: "https://example.com/l.png"})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.UpdateAssignee(ctx, a.ID, UpdateAssigneeRequest{AvatarURL: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Linus", updated.Name)
	assert.Empty(t, updated.AvatarURL)

	_, err = svc.UpdateAssignee(testutil.Ctx("other"), a.ID, UpdateAssigneeRequest{AvatarURL: &empty})
	assert.ErrorIs(t, err, ErrAssigneeNotFound)
}

func TestUploadAvatar_ReplacesPrevious(t *testing.T) {
	t.Parallel()
	svc, dir := setup(t)
	ctx := testutil.Ctx("")

	a, err := svc.CreateAssignee(ctx, CreateAssigneeRequest{Name: "Grace"})
	require.NoError(t, err)

	first, err := svc.UploadAvatar(ctx, a.ID, "grace.png", pngReader(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.AvatarURL, baseURL+"/assignees/"+a.ID.String()+"/"), first.AvatarURL)
	_, err = os.Stat(localPath(dir, first.AvatarURL))
	require.NoError(t, err)

	second, err := svc.UploadAvatar(ctx, a.ID, "grace2.png", pngReader(t))
	require.NoError(t, err)
	assert.NotEqual(t, first.AvatarURL, second.AvatarURL)

	_, err = os.Stat(localPath(dir, first.AvatarURL))
	assert.True(t, os.IsNotExist(err), "previous avatar should be removed")
}

func TestUploadAvatar_RejectsNonImage(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)
	ctx := testutil.Ctx("")

	a, err := svc.CreateAssignee(ctx, CreateAssigneeRequest{Name: "Ken"})
	require.NoError(t, err)

	_, err = svc.UploadAvatar(ctx, a.ID, "notes.txt", strings.NewReader("plain text, not an image"))
	assert.True(t, errors.Is(err, storage.ErrNotImage), "got %v", err)

	got, err := svc.GetAssignee(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AvatarURL)
}

func TestUploadAvatar_NoBucket(t *testing.T) {
	t.Parallel()
	_, repo := testutil.SetupTestDB(t)
	svc := NewService(repo.Assignees, nil, nil)

	_, err := svc.UploadAvatar(context.Background(), 1, "x.png", pngReader(t))
	assert.ErrorIs(t, err, ErrNoStorage)
}

func TestDeleteAssignee(t *testing.T) {
	t.Parallel()
	svc, dir := setup(t)
	ctx := testutil.Ctx("")

	a, err := svc.CreateAssignee(ctx, CreateAssigneeRequest{Name: "Barbara"})
	require.NoError(t, err)
	withAvatar, err := svc.UploadAvatar(ctx, a.ID, "b.png", pngReader(t))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAssignee(ctx, a.ID))
	_, err = os.Stat(localPath(dir, withAvatar.AvatarURL))
	assert.True(t, os.IsNotExist(err))
	assert.ErrorIs(t, svc.DeleteAssignee(ctx, a.ID), ErrAssigneeNotFound)
}
