package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/kirillkom/scan-uploader/internal/core/domain"
)

func (c *Client) login(ctx context.Context, baseURL string, creds domain.Credentials) (domain.TokenPair, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("marshal login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TokenPair{}, &domain.TransportError{Operation: "login", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.TokenPair{}, formatHTTPError(domain.OperationLogin, resp)
	}

	pair := tokensFromCookies(resp.Cookies())
	if !pair.Complete() {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		pair = mergeTokens(pair, tokensFromBody(raw))
	}
	if !pair.Complete() {
		return domain.TokenPair{}, domain.ErrTokenExtraction
	}
	return pair, nil
}

func (c *Client) logout(ctx context.Context, baseURL, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+logoutPath, nil)
	if err != nil {
		return fmt.Errorf("create logout request: %w", err)
	}
	authorize(req, accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Operation: "logout", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.StatusError{Operation: domain.OperationLogout, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) upload(ctx context.Context, in domain.UploadRequest) (domain.UploadResponse, error) {
	var buf bytes.Buffer
	contentType, err := writeMultipart(&buf, in)
	if err != nil {
		return domain.UploadResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, in.URL, &buf)
	if err != nil {
		return domain.UploadResponse{}, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if in.RequestID != "" {
		req.Header.Set("X-Request-Id", in.RequestID)
	}
	authorize(req, in.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.UploadResponse{}, &domain.TransportError{Operation: "upload", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return domain.UploadResponse{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}, nil
}

// writeMultipart lays out the payload fields first, then one "files" part per image.
func writeMultipart(w io.Writer, in domain.UploadRequest) (string, error) {
	mw := multipart.NewWriter(w)
	for _, field := range in.Fields {
		if err := mw.WriteField(field.Name, field.Value); err != nil {
			return "", fmt.Errorf("write field %s: %w", field.Name, err)
		}
	}
	for _, file := range in.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(file.Name)))
		header.Set("Content-Type", domain.ScanContentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			return "", fmt.Errorf("create file part %s: %w", file.Name, err)
		}
		if file.Body == nil {
			return "", &domain.FileAccessError{Name: file.Name, Err: fmt.Errorf("file is not open")}
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return "", &domain.FileAccessError{Name: file.Name, Err: err}
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}
	return mw.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// authorize sends the token both ways the server accepts it.
func authorize(req *http.Request, accessToken string) {
	if accessToken == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: accessToken})
}

func tokensFromCookies(cookies []*http.Cookie) domain.TokenPair {
	var pair domain.TokenPair
	for _, cookie := range cookies {
		switch cookie.Name {
		case accessTokenCookie:
			pair.Access = cookie.Value
		case refreshTokenCookie:
			pair.Refresh = cookie.Value
		}
	}
	return pair
}

type tokenBody struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func tokensFromBody(raw []byte) domain.TokenPair {
	var body struct {
		tokenBody
		Data *tokenBody `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.TokenPair{}
	}
	pair := domain.TokenPair{Access: body.AccessToken, Refresh: body.RefreshToken}
	if body.Data != nil {
		pair = mergeTokens(pair, domain.TokenPair{Access: body.Data.AccessToken, Refresh: body.Data.RefreshToken})
	}
	return pair
}

func mergeTokens(primary, fallback domain.TokenPair) domain.TokenPair {
	if primary.Access == "" {
		primary.Access = fallback.Access
	}
	if primary.Refresh == "" {
		primary.Refresh = fallback.Refresh
	}
	return primary
}

func formatHTTPError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.StatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
