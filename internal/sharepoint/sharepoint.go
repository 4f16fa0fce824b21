// Package sharepoint fetches source documents from Microsoft Graph
// drive item URLs using app-only client credentials. Tokens are
// acquired and refreshed by the oauth2 transport; credentials never
// leave this package.
package sharepoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const defaultScope = "https://graph.microsoft.com/.default"

// Credentials configures the app-only Graph login. AuthorityURL is the
// tenant authority, e.g. https://login.microsoftonline.com/<tenant>.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AuthorityURL string
	Scope        string
}

// Client downloads drive items through the Graph API.
type Client struct {
	httpc *http.Client
}

// NewClient builds a Client whose HTTP transport injects and refreshes
// the client-credentials token on every request.
func NewClient(creds Credentials) *Client {
	scope := creds.Scope
	if scope == "" {
		scope = defaultScope
	}
	conf := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     strings.TrimRight(creds.AuthorityURL, "/") + "/oauth2/v2.0/token",
		Scopes:       []string{scope},
	}
	httpc := conf.Client(context.Background())
	httpc.Timeout = 2 * time.Minute
	return &Client{httpc: httpc}
}

// File is a fetched source document spooled to local disk. The caller
// owns it and removes it when done.
type File struct {
	Path        string
	Name        string
	ContentType string
}

// IsPDF reports whether the document claims to be a PDF, by MIME type
// or file extension.
func (f *File) IsPDF() bool {
	if f.ContentType == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(f.Name), ".pdf")
}

// Remove deletes the spooled file.
func (f *File) Remove() error {
	return os.Remove(f.Path)
}

// Fetch resolves a Graph drive item URL: it reads the item metadata,
// then streams the content behind the item's download URL into a
// temporary file.
func (c *Client) Fetch(ctx context.Context, itemURL string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itemURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building metadata request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching item metadata: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("graph returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var meta struct {
		Name string `json:"name"`
		File struct {
			MimeType string `json:"mimeType"`
		} `json:"file"`
		DownloadURL string `json:"@microsoft.graph.downloadUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decoding item metadata: %w", err)
	}
	if meta.DownloadURL == "" {
		return nil, errors.New("drive item has no download URL")
	}

	return c.download(ctx, meta.DownloadURL, meta.Name, meta.File.MimeType)
}

func (c *Client) download(ctx context.Context, url, name, mimeType string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading content: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("download returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	tmp, err := os.CreateTemp("", "prospekt-download-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	contentType := mimeType
	if contentType == "" {
		contentType = resp.Header.Get("Content-Type")
	}
	return &File{Path: tmp.Name(), Name: name, ContentType: contentType}, nil
}
