package docling

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/docmark/docmark/pkg/converter"
)

var _ converter.Provider = &Client{}

type Client struct {
	client *http.Client

	url   string
	token string
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("invalid url")
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Convert(ctx context.Context, file string) (*converter.Document, error) {
	if !isSupported(file) {
		return nil, converter.ErrUnsupported
	}

	content, err := os.ReadFile(file)

	if err != nil {
		return nil, err
	}

	var data bytes.Buffer
	w := multipart.NewWriter(&data)

	part, err := w.CreateFormFile("files", filepath.Base(file))

	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		return nil, err
	}

	w.WriteField("to_formats", "md")
	w.WriteField("to_formats", "json")
	w.WriteField("image_export_mode", "embedded")

	w.Close()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.url, "/")+"/v1/convert/file/async", &data)
	req.Header.Set("Content-Type", w.FormDataContentType())

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var convertResult struct {
		TaskID string `json:"task_id"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&convertResult); err != nil {
		return nil, err
	}

	if err := c.awaitTask(ctx, convertResult.TaskID); err != nil {
		return nil, err
	}

	return c.readDocument(ctx, convertResult.TaskID)
}

func (c *Client) awaitTask(ctx context.Context, taskID string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.After(2 * time.Second):
		}

		req, _ := http.NewRequestWithContext(ctx, "GET", strings.TrimRight(c.url, "/")+"/v1/status/poll/"+taskID, nil)

		resp, err := c.client.Do(req)

		if err != nil {
			return err
		}

		defer resp.Body.Close()

		var task TaskResult

		if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
			return err
		}

		if task.TaskStatus == TaskStatusStarted {
			continue
		}

		if task.TaskStatus == TaskStatusSuccess {
			return nil
		}

		return errors.New("task failed")
	}
}

func (c *Client) readDocument(ctx context.Context, taskID string) (*converter.Document, error) {
	req, _ := http.NewRequestWithContext(ctx, "GET", strings.TrimRight(c.url, "/")+"/v1/result/"+taskID, nil)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	var task TaskResult

	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, err
	}

	if task.TaskStatus != TaskStatusSuccess {
		return nil, errors.New("task not successful")
	}

	if task.Document == nil || task.Document.Markdown == "" {
		return nil, errors.New("no content")
	}

	result := &converter.Document{
		Markdown: task.Document.Markdown,
	}

	if task.Document.Json != "" {
		var doc Document

		if err := json.Unmarshal([]byte(task.Document.Json), &doc); err == nil {
			result.PageCount = len(doc.Pages)

			for _, picture := range doc.Pictures {
				data, format, err := decodeImageURI(picture.Image.URI)

				if err != nil {
					continue
				}

				page := 0

				if len(picture.Prov) > 0 {
					page = picture.Prov[0].PageNo
				}

				result.Pictures = append(result.Pictures, converter.Picture{
					Page:   page,
					Anchor: -1,

					Data:   data,
					Format: format,
				})
			}
		}
	}

	return result, nil
}

func decodeImageURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", errors.New("unsupported image uri")
	}

	mediatype, encoded, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")

	if !ok {
		return nil, "", errors.New("invalid data uri")
	}

	format := "png"

	if strings.HasPrefix(mediatype, "image/jpeg") {
		format = "jpeg"
	}

	data, err := base64.StdEncoding.DecodeString(encoded)

	if err != nil {
		return nil, "", err
	}

	return data, format, nil
}

func isSupported(file string) bool {
	ext := strings.ToLower(path.Ext(file))
	return slices.Contains(SupportedExtensions, ext)
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}
