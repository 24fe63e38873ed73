package apiapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/infra/httpclient"
	"github.com/tiagocodinha/StagelinkApproval/internal/repo/postgres"
	redisrepo "github.com/tiagocodinha/StagelinkApproval/internal/repo/redis"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/auth"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/board"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/content"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/media"
	"github.com/tiagocodinha/StagelinkApproval/internal/services/notify"
	"github.com/tiagocodinha/StagelinkApproval/internal/transport/http/handlers"
)

const (
	smokeAdminEmail = "geral@stagelink.pt"
	smokePassword   = "correct-horse"
)

type memProfileRepo struct {
	byID map[int64]postgres.ProfileRecord
}

func (r *memProfileRepo) GetByEmail(_ context.Context, email string) (postgres.ProfileRecord, error) {
	for _, profile := range r.byID {
		if strings.EqualFold(profile.Email, email) {
			return profile, nil
		}
	}
	return postgres.ProfileRecord{}, postgres.ErrProfileNotFound
}

func (r *memProfileRepo) GetByID(_ context.Context, id int64) (postgres.ProfileRecord, error) {
	profile, ok := r.byID[id]
	if !ok {
		return postgres.ProfileRecord{}, postgres.ErrProfileNotFound
	}
	return profile, nil
}

func (r *memProfileRepo) ListClients(_ context.Context, adminEmail string) ([]postgres.ProfileRecord, error) {
	var out []postgres.ProfileRecord
	for _, profile := range r.byID {
		if !strings.EqualFold(profile.Email, adminEmail) {
			out = append(out, profile)
		}
	}
	return out, nil
}

type memContentRepo struct {
	mu    sync.Mutex
	items []postgres.ContentItemRecord
	names map[int64][2]string
}

func (r *memContentRepo) Create(_ context.Context, params postgres.CreateContentParams) (postgres.ContentItemRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignee := r.names[params.AssignedTo]
	record := postgres.ContentItemRecord{
		ID:            uuid.NewString(),
		Caption:       params.Caption,
		ContentType:   params.ContentType,
		MediaURL:      params.MediaURL,
		MediaKind:     params.MediaKind,
		Status:        string(enums.StatusPending),
		ScheduleDate:  params.ScheduleDate,
		AssignedTo:    params.AssignedTo,
		AssigneeEmail: assignee[0],
		AssigneeName:  assignee[1],
		CreatedBy:     params.CreatedBy,
		CreatedAt:     time.Now(),
	}
	r.items = append([]postgres.ContentItemRecord{record}, r.items...)
	return record, nil
}

func (r *memContentRepo) GetByID(_ context.Context, id string) (postgres.ContentItemRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return postgres.ContentItemRecord{}, postgres.ErrContentNotFound
}

func (r *memContentRepo) UpdateStatusIfPending(_ context.Context, id, status string) (postgres.ContentItemRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID != id {
			continue
		}
		if item.Status != string(enums.StatusPending) {
			return postgres.ContentItemRecord{}, postgres.ErrStaleStatus
		}
		decidedAt := time.Now()
		r.items[i].Status = status
		r.items[i].DecidedAt = &decidedAt
		return r.items[i], nil
	}
	return postgres.ContentItemRecord{}, postgres.ErrContentNotFound
}

func (r *memContentRepo) ListAll(_ context.Context) ([]postgres.ContentItemRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]postgres.ContentItemRecord(nil), r.items...), nil
}

func (r *memContentRepo) ListAssignedTo(_ context.Context, profileID int64) ([]postgres.ContentItemRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []postgres.ContentItemRecord
	for _, item := range r.items {
		if item.AssignedTo == profileID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memContentRepo) DistinctAssigneeEmails(_ context.Context, excludeEmail string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}
	var emails []string
	for _, item := range r.items {
		if strings.EqualFold(item.AssigneeEmail, excludeEmail) || seen[item.AssigneeEmail] {
			continue
		}
		seen[item.AssigneeEmail] = true
		emails = append(emails, item.AssigneeEmail)
	}
	return emails, nil
}

type mediaStubStorage struct{}

func (mediaStubStorage) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func newSmokeServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()

	hash, err := bcrypt.GenerateFromPassword([]byte(smokePassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	profiles := &memProfileRepo{byID: map[int64]postgres.ProfileRecord{
		1:  {ID: 1, Email: smokeAdminEmail, FullName: "Stagelink", PasswordHash: string(hash)},
		42: {ID: 42, Email: "client@example.com", FullName: "Client One", PasswordHash: string(hash)},
	}}
	contents := &memContentRepo{names: map[int64][2]string{
		1:  {smokeAdminEmail, "Stagelink"},
		42: {"client@example.com", "Client One"},
	}}

	srv := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessions := redisrepo.NewSessionRepo(redisClient)

	tokens, err := auth.NewTokenManager("smoke-secret", 15*time.Minute)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	authService, err := auth.NewService(profiles, sessions, tokens, logger, smokeAdminEmail, time.Hour)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	notifierStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(notifierStub.Close)
	notifyService, err := notify.NewService(httpclient.New(5*time.Second), notifierStub.URL, logger)
	if err != nil {
		t.Fatalf("notify service: %v", err)
	}

	contentService, err := content.NewService(contents, profiles, notifyService, logger)
	if err != nil {
		t.Fatalf("content service: %v", err)
	}
	boardService, err := board.NewService(contents, profiles, logger, smokeAdminEmail)
	if err != nil {
		t.Fatalf("board service: %v", err)
	}

	mediaService, err := media.NewService(mediaStubStorage{}, logger, 1<<20)
	if err != nil {
		t.Fatalf("media service: %v", err)
	}

	router := newRouter(
		authService,
		handlers.NewHealthHandler(),
		handlers.NewAuthHandler(authService, logger),
		handlers.NewContentHandler(contentService, boardService, logger),
		handlers.NewBoardHandler(boardService, logger),
		handlers.NewMediaHandler(mediaService, logger),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, server *httptest.Server, path, token, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, server.URL+path, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, buf.Bytes()
}

func getJSON(t *testing.T, server *httptest.Server, path, token string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, buf.Bytes()
}

func login(t *testing.T, server *httptest.Server, email string) string {
	t.Helper()

	resp, body := postJSON(t, server, "/auth/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, smokePassword))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, resp.StatusCode, body)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return parsed.AccessToken
}

func TestApprovalFlowEndToEnd(t *testing.T) {
	server := newSmokeServer(t)

	adminToken := login(t, server, smokeAdminEmail)
	clientToken := login(t, server, "client@example.com")

	resp, body := postJSON(t, server, "/content", adminToken,
		`{"caption":"Spring launch teaser","content_type":"Post","schedule_date":"2024-03-15","assigned_to":42}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create content: status %d: %s", resp.StatusCode, body)
	}

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created item: %v", err)
	}
	if created.Status != "Pending" {
		t.Fatalf("new item status %q, want Pending", created.Status)
	}

	resp, body = getJSON(t, server, "/content", clientToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("client list: status %d: %s", resp.StatusCode, body)
	}
	var list struct {
		Pending []struct {
			ID string `json:"id"`
		} `json:"pending"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Pending) != 1 || list.Pending[0].ID != created.ID {
		t.Fatalf("client must see the pending item: %s", body)
	}

	resp, body = postJSON(t, server, "/content/"+created.ID+"/status", adminToken, `{"status":"Approved"}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin decision: status %d, want 403: %s", resp.StatusCode, body)
	}

	resp, body = postJSON(t, server, "/content/"+created.ID+"/status", clientToken, `{"status":"Approved"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: status %d: %s", resp.StatusCode, body)
	}

	resp, body = postJSON(t, server, "/content/"+created.ID+"/status", clientToken, `{"status":"Rejected"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second decision: status %d, want 409: %s", resp.StatusCode, body)
	}

	resp, body = getJSON(t, server, "/board/folders", adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("folders: status %d: %s", resp.StatusCode, body)
	}
	var folders struct {
		Folders []struct {
			Client string `json:"client"`
			Months []struct {
				Month string `json:"month"`
			} `json:"months"`
		} `json:"folders"`
	}
	if err := json.Unmarshal(body, &folders); err != nil {
		t.Fatalf("decode folders: %v", err)
	}
	if len(folders.Folders) != 1 || folders.Folders[0].Client != "client@example.com" {
		t.Fatalf("approved item must land in the client folder: %s", body)
	}

	if resp, body := getJSON(t, server, "/board/folders", clientToken); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("folders as client: status %d, want 403: %s", resp.StatusCode, body)
	}

	if resp, body := getJSON(t, server, "/content", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous list: status %d, want 401: %s", resp.StatusCode, body)
	}
}

func TestHealthzIsPublic(t *testing.T) {
	server := newSmokeServer(t)

	resp, body := getJSON(t, server, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: status %d: %s", resp.StatusCode, body)
	}
}
