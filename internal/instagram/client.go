// Package instagram is the channel client for the private
// direct-messaging API: inbox polling, pending-thread approval and the
// broadcast send primitives. Login and session management happen outside
// this package; the client is handed a ready session token.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is the surface the bot consumes. Implemented by API; tests use
// fakes.
type Client interface {
	PollInbox(ctx context.Context) (*Inbox, error)
	PendingThreads(ctx context.Context) ([]string, error)
	ApprovePending(ctx context.Context, threadID string) error
	SendText(ctx context.Context, userID, text string) error
	SendPhoto(ctx context.Context, userID, path string) error
	ResolveUsername(ctx context.Context, username string) (string, error)
}

const defaultBaseURL = "https://i.instagram.com/api/v1"

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// API talks to the platform over HTTP with an authenticated session.
type API struct {
	http         *http.Client
	baseURL      string
	sessionToken string
	deviceID     string
}

type Options struct {
	HTTPClient   *http.Client
	BaseURL      string
	SessionToken string
	DeviceID     string
}

func New(opts Options) (*API, error) {
	if strings.TrimSpace(opts.SessionToken) == "" {
		return nil, fmt.Errorf("instagram: missing session token")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	deviceID := strings.TrimSpace(opts.DeviceID)
	if deviceID == "" {
		deviceID = uuid.NewString()
	}
	return &API{
		http:         httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		sessionToken: opts.SessionToken,
		deviceID:     deviceID,
	}, nil
}

// PollInbox fetches the full direct inbox snapshot.
func (a *API) PollInbox(ctx context.Context) (*Inbox, error) {
	var out inboxResponse
	if err := a.getJSON(ctx, "/direct_v2/inbox/", &out); err != nil {
		return nil, err
	}
	return &Inbox{Viewer: out.Viewer, Threads: out.Inbox.Threads}, nil
}

// PendingThreads lists thread ids waiting for approval.
func (a *API) PendingThreads(ctx context.Context) ([]string, error) {
	var out pendingInboxResponse
	if err := a.getJSON(ctx, "/direct_v2/pending_inbox/", &out); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.Inbox.Threads))
	for _, t := range out.Inbox.Threads {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

// ApprovePending accepts a pending thread so its messages reach the inbox.
func (a *API) ApprovePending(ctx context.Context, threadID string) error {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return fmt.Errorf("instagram: missing thread id")
	}
	form := url.Values{}
	var out statusResponse
	return a.postForm(ctx, "/direct_v2/threads/"+url.PathEscape(threadID)+"/approve/", form, &out)
}

// SendText broadcasts a text item to userID. Texts containing URLs are
// sent as link items so the platform renders a preview.
func (a *API) SendText(ctx context.Context, userID, text string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("instagram: missing user id")
	}

	form := url.Values{}
	form.Set("recipient_users", fmt.Sprintf("[[%s]]", userID))
	form.Set("client_context", uuid.NewString())
	form.Set("device_id", a.deviceID)

	endpoint := "/direct_v2/threads/broadcast/text/"
	if urls := urlPattern.FindAllString(text, -1); len(urls) > 0 {
		endpoint = "/direct_v2/threads/broadcast/link/"
		form.Set("link_text", text)
		encoded, err := json.Marshal(urls)
		if err != nil {
			return fmt.Errorf("instagram: encode link urls: %w", err)
		}
		form.Set("link_urls", string(encoded))
	} else {
		form.Set("text", text)
	}

	var out statusResponse
	return a.postForm(ctx, endpoint, form, &out)
}

// SendPhoto uploads the JPG at path and broadcasts it to userID.
func (a *API) SendPhoto(ctx context.Context, userID, path string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("instagram: missing user id")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer pw.Close()
		defer mw.Close()

		_ = mw.WriteField("recipient_users", fmt.Sprintf("[[%s]]", userID))
		_ = mw.WriteField("client_context", uuid.NewString())
		_ = mw.WriteField("device_id", a.deviceID)

		part, err := mw.CreateFormFile("photo", filepath.Base(path))
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/direct_v2/threads/broadcast/upload_photo/", pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	a.authorize(req)

	var out statusResponse
	return a.do(req, &out)
}

// ResolveUsername maps an account name to its user id. An unknown name
// returns ("", nil).
func (a *API) ResolveUsername(ctx context.Context, username string) (string, error) {
	username = strings.TrimSpace(strings.TrimPrefix(username, "@"))
	if username == "" {
		return "", fmt.Errorf("instagram: missing username")
	}
	var out searchUserResponse
	if err := a.getJSON(ctx, "/users/"+url.PathEscape(username)+"/usernameinfo/", &out); err != nil {
		return "", err
	}
	if out.User == nil || out.User.PK == 0 {
		return "", nil
	}
	return strconv.FormatInt(out.User.PK, 10), nil
}

func (a *API) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	a.authorize(req)
	return a.do(req, out)
}

func (a *API) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	a.authorize(req)
	return a.do(req, out)
}

func (a *API) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.sessionToken)
}

func (a *API) do(req *http.Request, out any) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("instagram: decode %s: %w", req.URL.Path, err)
	}
	if sr, isStatused := out.(statused); isStatused && !sr.ok() {
		return &RequestError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return nil
}
