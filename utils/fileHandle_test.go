package utils

import (
	"context"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUniqueFilename(t *testing.T) {
	name := UniqueFilename("Aula 01.MP4")
	assert.True(t, strings.HasSuffix(name, ".mp4"))
	_, err := uuid.Parse(strings.TrimSuffix(name, ".mp4"))
	assert.NoError(t, err)

	assert.NotEqual(t, UniqueFilename("a.mp4"), UniqueFilename("a.mp4"))
}

func TestContentType(t *testing.T) {
	declared := &multipart.FileHeader{Filename: "a.mp4", Header: textproto.MIMEHeader{"Content-Type": {"video/webm"}}}
	assert.Equal(t, "video/webm", ContentType(declared))

	unknown := &multipart.FileHeader{Filename: "a.zzz", Header: textproto.MIMEHeader{}}
	assert.Equal(t, "application/octet-stream", ContentType(unknown))
}

func TestMailerDisabledIsNoop(t *testing.T) {
	m := NewMailer("", "")
	assert.False(t, m.Enabled())
	err := m.CertificateIssued(context.Background(), models.User{ID: "ana", Email: "ana@corp.com"}, courseModels.Certificate{})
	assert.NoError(t, err)
}

func TestCertificateEmail(t *testing.T) {
	cert := courseModels.Certificate{
		ID:          "cert-1",
		UserName:    "Ana",
		CourseTitle: "Fibra Óptica",
		IssuedAt:    time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
	}
	subject, plain, html := certificateEmail(cert)
	assert.Equal(t, "Certificado: Fibra Óptica", subject)
	assert.Contains(t, plain, "09/03/2026")
	assert.Contains(t, html, "cert-1")
}

func TestCertificateEmailEscapesMarkup(t *testing.T) {
	cert := courseModels.Certificate{
		ID:          "cert-2",
		UserName:    `<script>alert("x")</script>`,
		CourseTitle: "Vendas & <b>Negociação</b>",
		IssuedAt:    time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
	}
	_, plain, html := certificateEmail(cert)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>")
	assert.Contains(t, html, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;")
	assert.Contains(t, html, "Vendas &amp; &lt;b&gt;Negociação&lt;/b&gt;")
	// the plain text part is not markup
	assert.Contains(t, plain, `<script>alert("x")</script>`)
}
