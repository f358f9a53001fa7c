package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NYD05/StyleHub/models"
)

// Ошибки, с которыми сравнивается APIError через errors.Is.
var (
	ErrAuthorization = errors.New("ошибка авторизации")
	ErrForbidden     = errors.New("доступ запрещен")
	ErrNotFound      = errors.New("не найдено")
	ErrConflict      = errors.New("конфликт")
)

// APIError - ответ сервера с кодом ошибки.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ошибка API (статус %d): %s", e.StatusCode, e.Message)
}

// Is сопоставляет статус ответа с сигнальными ошибками пакета.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthorization:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// Client определяет интерфейс для взаимодействия с API сервера StyleHub.
type Client interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
	// Login аутентифицирует пользователя и запоминает токен сессии для следующих запросов.
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	UploadSketch(ctx context.Context, title, description, filename string, content io.Reader) (*models.UploadResponse, error)
	ListSketches(ctx context.Context) ([]models.SketchSummary, error)
	ToggleLike(ctx context.Context, sketchID int64) (*models.LikeResponse, error)
	AddComment(ctx context.Context, sketchID int64, content string) (int64, error)
	ListComments(ctx context.Context, sketchID int64) ([]models.Comment, error)
	DeleteSketch(ctx context.Context, sketchID int64) error
	// DownloadFile скачивает файл наброска. Поток нужно закрыть.
	DownloadFile(ctx context.Context, filename string) (io.ReadCloser, error)
	// SetAuthToken устанавливает токен сессии для аутентифицированных запросов.
	SetAuthToken(token string)
}

// httpClient реализует интерфейс Client по HTTP.
type httpClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewHTTPClient создает новый экземпляр API клиента. Если hc равен nil,
// используется http.DefaultClient.
func NewHTTPClient(baseURL string, hc *http.Client) Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &httpClient{baseURL: baseURL, httpClient: hc}
}

func (c *httpClient) SetAuthToken(token string) {
	c.authToken = token
}

// Register отправляет запрос на регистрацию.
func (c *httpClient) Register(ctx context.Context, username, email, password string) (int64, error) {
	var resp models.RegisterResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/register", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, http.StatusCreated, &resp)
	if err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// Login отправляет запрос на вход и сохраняет токен.
func (c *httpClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/login", models.LoginRequest{
		Username: username,
		Password: password,
	}, http.StatusOK, &resp)
	if err != nil {
		return nil, err
	}
	if resp.SessionToken == "" {
		return nil, errors.New("сервер вернул пустой токен")
	}
	c.authToken = resp.SessionToken
	return &resp, nil
}

// UploadSketch загружает набросок multipart-формой.
func (c *httpClient) UploadSketch(
	ctx context.Context,
	title, description, filename string,
	content io.Reader,
) (*models.UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("title", title); err != nil {
		return nil, fmt.Errorf("ошибка формирования формы: %w", err)
	}
	if err := mw.WriteField("description", description); err != nil {
		return nil, fmt.Errorf("ошибка формирования формы: %w", err)
	}
	part, err := mw.CreateFormFile("sketch", filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования формы: %w", err)
	}
	if _, err = io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("ошибка чтения файла наброска: %w", err)
	}
	if err = mw.Close(); err != nil {
		return nil, fmt.Errorf("ошибка формирования формы: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp models.UploadResponse
	if err = c.do(req, http.StatusCreated, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) ListSketches(ctx context.Context) ([]models.SketchSummary, error) {
	var sketches []models.SketchSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/sketches", nil, http.StatusOK, &sketches); err != nil {
		return nil, err
	}
	return sketches, nil
}

func (c *httpClient) ToggleLike(ctx context.Context, sketchID int64) (*models.LikeResponse, error) {
	var resp models.LikeResponse
	if err := c.doJSON(ctx, http.MethodPost, sketchPath(sketchID, "like"), nil, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) AddComment(ctx context.Context, sketchID int64, content string) (int64, error) {
	var resp models.CommentResponse
	err := c.doJSON(ctx, http.MethodPost, sketchPath(sketchID, "comments"),
		models.CommentRequest{Content: content}, http.StatusCreated, &resp)
	if err != nil {
		return 0, err
	}
	return resp.CommentID, nil
}

func (c *httpClient) ListComments(ctx context.Context, sketchID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.doJSON(ctx, http.MethodGet, sketchPath(sketchID, "comments"), nil, http.StatusOK, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *httpClient) DeleteSketch(ctx context.Context, sketchID int64) error {
	return c.doJSON(ctx, http.MethodDelete, sketchPath(sketchID, ""), nil, http.StatusOK, nil)
}

func (c *httpClient) DownloadFile(ctx context.Context, filename string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/uploads/"+url.PathEscape(filename), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса на скачивание: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

func sketchPath(sketchID int64, suffix string) string {
	p := "/api/sketches/" + strconv.FormatInt(sketchID, 10)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func (c *httpClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	target, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования URL %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса %s %s: %w", method, path, err)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	return req, nil
}

// doJSON отправляет payload в JSON (если он не nil) и декодирует ответ в out (если он не nil).
func (c *httpClient) doJSON(ctx context.Context, method, path string, payload any, wantStatus int, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("ошибка кодирования запроса %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, wantStatus, out)
}

func (c *httpClient) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования ответа %s: %w", req.URL.Path, err)
	}
	return nil
}

// decodeError читает тело {"error": "..."}; при нечитаемом теле сообщением служит текст статуса.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body models.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
