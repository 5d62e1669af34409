package schoolapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

type AnalyticsAPI struct{ c *Client }

func (a *AnalyticsAPI) Dashboard(ctx context.Context) (school.DashboardStats, error) {
	return Get[school.DashboardStats](ctx, a.c, "/analytics/dashboard", nil)
}

// Class returns the server-side class analytics as an untyped document.
func (a *AnalyticsAPI) Class(ctx context.Context, classID int) (map[string]interface{}, error) {
	return Get[map[string]interface{}](ctx, a.c, pathf("/analytics/class/%d", classID), nil)
}

type AIAPI struct{ c *Client }

func (a *AIAPI) GenerateExam(ctx context.Context, req school.ExamGenerationRequest) (school.GeneratedExam, error) {
	return Post[school.GeneratedExam](ctx, a.c, "/ai/generate-exam", req)
}

type WhatsAppAPI struct{ c *Client }

func (a *WhatsAppAPI) Send(ctx context.Context, msg school.WhatsAppMessage) (school.WhatsAppStatus, error) {
	return Post[school.WhatsAppStatus](ctx, a.c, "/whatsapp/send", msg)
}

func (a *WhatsAppAPI) Bulk(ctx context.Context, msgs []school.WhatsAppMessage) (school.WhatsAppStatus, error) {
	return Post[school.WhatsAppStatus](ctx, a.c, "/whatsapp/bulk", map[string]interface{}{"messages": msgs})
}

type FilesAPI struct{ c *Client }

// Upload sends r as the "file" part of a multipart form.
func (a *FilesAPI) Upload(ctx context.Context, filename string, r io.Reader) (school.UploadedFile, error) {
	const path = "/files/upload"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return school.UploadedFile{}, unexpectedError(http.MethodPost, path, 0, errors.Wrap(err, "multipart.CreateFormFile()"))
	}
	if _, err := io.Copy(part, r); err != nil {
		return school.UploadedFile{}, unexpectedError(http.MethodPost, path, 0, errors.Wrap(err, "io.Copy()"))
	}
	if err := mw.Close(); err != nil {
		return school.UploadedFile{}, unexpectedError(http.MethodPost, path, 0, errors.Wrap(err, "multipart.Close()"))
	}

	var out school.UploadedFile
	if err := a.c.do(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), &out); err != nil {
		return school.UploadedFile{}, err
	}
	return out, nil
}

type AuthAPI struct{ c *Client }

// Login exchanges credentials for a token, which is stored under the client's token key.
func (a *AuthAPI) Login(ctx context.Context, req school.LoginRequest) (school.LoginResponse, error) {
	resp, err := Post[school.LoginResponse](ctx, a.c, "/auth/login", req)
	if err != nil {
		return school.LoginResponse{}, err
	}
	if resp.Token == "" {
		return school.LoginResponse{}, unexpectedError(http.MethodPost, "/auth/login", http.StatusOK, errors.New("login response carries no token"))
	}
	if a.c.tokens != nil {
		if err := a.c.tokens.Set(ctx, a.c.tokenKey, resp.Token); err != nil {
			return school.LoginResponse{}, errors.Wrap(err, "tokens.Set()")
		}
	}
	a.c.events.publish(AuthEvent{Kind: EventLoggedIn, Path: "/auth/login"})
	return resp, nil
}

// Logout ends the session server side and always forgets the stored token,
// even when the server call fails.
func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := Post[Empty](ctx, a.c, "/auth/logout", nil)
	if a.c.tokens != nil {
		if dErr := a.c.tokens.Delete(ctx, a.c.tokenKey); dErr != nil && !errors.Is(dErr, core.ErrTokenNotFound) {
			a.c.logger.Warn("schoolapi: deleting token", dErr)
		}
	}
	a.c.events.publish(AuthEvent{Kind: EventLoggedOut, Path: "/auth/logout"})
	if IsUnauthorized(err) {
		return nil // already logged out
	}
	return err
}

func (a *AuthAPI) Me(ctx context.Context) (school.Me, error) {
	return Get[school.Me](ctx, a.c, "/auth/me", nil)
}
