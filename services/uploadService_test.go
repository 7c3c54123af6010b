package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVideoHost struct {
	configured  bool
	err         error
	name        string
	contentType string
	body        string
}

func (f *fakeVideoHost) Configured() bool { return f.configured }

func (f *fakeVideoHost) Put(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	raw, _ := io.ReadAll(body)
	f.name, f.contentType, f.body = name, contentType, string(raw)
	return "https://vod/" + name + "/index.m3u8", nil
}

func multipartFile(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestUploadRelaysFile(t *testing.T) {
	host := &fakeVideoHost{configured: true}
	svc := NewUploadService(host)

	url, err := svc.Upload(context.Background(), multipartFile(t, "aula.mp4", "video/mp4", "frames"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(host.name, ".mp4"))
	assert.NotEqual(t, "aula.mp4", host.name)
	assert.Equal(t, "video/mp4", host.contentType)
	assert.Equal(t, "frames", host.body)
	assert.Equal(t, "https://vod/"+host.name+"/index.m3u8", url)
}

func TestUploadErrors(t *testing.T) {
	file := multipartFile(t, "aula.mp4", "video/mp4", "frames")

	_, err := NewUploadService(&fakeVideoHost{}).Upload(context.Background(), file)
	assert.ErrorIs(t, err, ErrUploadNotConfigured)

	_, err = NewUploadService(&fakeVideoHost{configured: true, err: errors.New("503")}).Upload(context.Background(), file)
	assert.ErrorIs(t, err, ErrUploadFailed)
}
