package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"mintforge/internal/assets"
	"mintforge/internal/services"
)

// HTTPUploader posts assets as multipart/form-data to a storage endpoint.
type HTTPUploader struct {
	url    string
	token  string
	client services.HTTPDoer
}

// NewHTTPUploader constructs an uploader for the given endpoint.
func NewHTTPUploader(url, token string, client services.HTTPDoer) *HTTPUploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPUploader{
		url:    strings.TrimSpace(url),
		token:  strings.TrimSpace(token),
		client: client,
	}
}

type uploadResponse struct {
	URI string `json:"uri"`
	URL string `json:"url"`
}

// Upload streams file to the endpoint and returns the URI it reports.
func (u *HTTPUploader) Upload(ctx context.Context, file assets.File) (string, error) {
	if u == nil || u.url == "" {
		return "", services.Wrap(services.ErrConfiguration, stageName, "post asset", "storage url not configured", nil)
	}
	payload, err := file.Open()
	if err != nil {
		return "", services.Wrap(services.ErrUpload, stageName, "open asset", file.Name, err)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		defer payload.Close()
		pw.CloseWithError(writeForm(form, file, payload))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, pr)
	if err != nil {
		pr.CloseWithError(err)
		return "", services.Wrap(services.ErrUpload, stageName, "build request", "", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	services.SetBearer(req, u.token)

	var resp uploadResponse
	if err := services.DoJSON(u.client, "storage", req, &resp); err != nil {
		pr.CloseWithError(err)
		return "", services.Wrap(services.ErrUpload, stageName, "post asset", file.Name, err)
	}
	uri := strings.TrimSpace(resp.URI)
	if uri == "" {
		uri = strings.TrimSpace(resp.URL)
	}
	if uri == "" {
		return "", services.Wrap(services.ErrUpload, stageName, "post asset", "storage response carried no uri", nil)
	}
	return uri, nil
}

func writeForm(form *multipart.Writer, file assets.File, payload io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, payload); err != nil {
		return err
	}
	return form.Close()
}
