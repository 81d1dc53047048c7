// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ecopulse/models"
)

// RemoteProfile is one user record as returned by the identity service.
type RemoteProfile struct {
	ExternalID    string    `json:"external_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     *string   `json:"first_name,omitempty"`
	LastName      *string   `json:"last_name,omitempty"`
	AccountStatus string    `json:"account_status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DisplayName prefers the full name and falls back to the username.
func (r RemoteProfile) DisplayName() string {
	var parts []string
	for _, p := range []*string{r.FirstName, r.LastName} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return r.Username
}

// GetUserChangesResponse is the top-level structure of the sync service response.
type GetUserChangesResponse struct {
	Users []RemoteProfile `json:"users"`
}

// ProfileRegistrar creates or refreshes the eco profile of a registered user.
type ProfileRegistrar interface {
	RegisterProfile(ctx context.Context, externalUserID, name, email string) (*models.EcoProfile, error)
}

// ProfileSyncWorker mirrors registrations from the identity service so each
// registered user has an eco profile before their first request.
type ProfileSyncWorker struct {
	registrar    ProfileRegistrar
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/profiles"
	serviceToken string
	httpClient   *http.Client

	since time.Time
}

func NewProfileSyncWorker(registrar ProfileRegistrar, syncServiceBaseURL, endpointPath, serviceToken string, interval time.Duration) *ProfileSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ProfileSyncWorker{
		registrar:    registrar,
		interval:     interval,
		baseURL:      syncServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (sync-service → eco_profiles)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	if err := w.SyncOnce(ctx); err != nil {
		log.Printf("⚠️ Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.SyncOnce(ctx); err != nil {
				log.Printf("❌ Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// SyncOnce pulls every change since the last seen update and registers it.
// The cursor only advances past users that were registered successfully.
func (w *ProfileSyncWorker) SyncOnce(ctx context.Context) error {
	users, err := w.fetch(ctx, w.since)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		log.Printf("[SYNC] ✅ No user changes received since %s", w.since.UTC().Format(time.RFC3339))
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d user(s) from sync service…", len(users))

	var upsertCount, skipCount, errorCount int
	cursor := w.since
	failed := false
	for _, remote := range users {
		if remote.ExternalID == "" || remote.AccountStatus == "deactivated" || remote.AccountStatus == "suspended" {
			skipCount++
		} else if _, err := w.registrar.RegisterProfile(ctx, remote.ExternalID, remote.DisplayName(), remote.Email); err != nil {
			errorCount++
			failed = true
			log.Printf("[SYNC] ⚠️ Failed to register profile (external_id=%q, username=%q): %v",
				remote.ExternalID, remote.Username, err)
			continue
		} else {
			upsertCount++
		}
		if !failed && remote.UpdatedAt.After(cursor) {
			cursor = remote.UpdatedAt
		}
	}
	w.since = cursor

	log.Printf("[SYNC] ✅ Synced %d users (%d registered, %d skipped, %d errors). Cursor: %s",
		len(users), upsertCount, skipCount, errorCount, cursor.UTC().Format(time.RFC3339))
	return nil
}

func (w *ProfileSyncWorker) fetch(ctx context.Context, since time.Time) ([]RemoteProfile, error) {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base sync service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request to sync service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("sync service non-200 response: %d: %s", resp.StatusCode, string(body))
	}

	var response GetUserChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode sync service response: %w", err)
	}
	return response.Users, nil
}
