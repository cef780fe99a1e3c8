package housekeeping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"hotel-pms-backend/config"
	"hotel-pms-backend/internal/model"
	"hotel-pms-backend/internal/store"
)

// Service keeps the room inventory and physical conditions in sync with the
// facilities system. Room condition is owned by housekeeping workflows; the
// scheduler only ever reads it, so this service is the sole writer.
type Service struct {
	cfg    *config.Config
	store  store.Store
	client *http.Client
}

// NewService creates and initializes a new housekeeping sync service.
func NewService(cfg *config.Config, st store.Store) *Service {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.Housekeeping.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.Housekeeping.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Sync will not use a proxy.", cfg.Housekeeping.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Service{
		cfg:   cfg,
		store: st,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
	}
}

// classifyCondition maps a raw facilities condition code to a RoomCondition.
func (s *Service) classifyCondition(code int) model.RoomCondition {
	for _, v := range s.cfg.Housekeeping.AvailableValues {
		if code == v {
			return model.ConditionAvailable
		}
	}
	for _, v := range s.cfg.Housekeeping.MaintenanceValues {
		if code == v {
			return model.ConditionMaintenance
		}
	}
	for _, v := range s.cfg.Housekeeping.CleaningValues {
		if code == v {
			return model.ConditionCleaning
		}
	}
	for _, v := range s.cfg.Housekeeping.OutOfServiceValues {
		if code == v {
			return model.ConditionOutOfService
		}
	}
	// An unrecognized code means the room cannot safely be sold.
	return model.ConditionOutOfService
}

// Run starts the sync process in a loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Housekeeping.Enabled {
		log.Println("Housekeeping sync is disabled. Not starting.")
		return
	}
	log.Println("Starting housekeeping sync service...")

	s.SyncOnce(ctx)

	timer := time.NewTimer(s.cfg.Housekeeping.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Housekeeping sync shutting down.")
			return
		case <-timer.C:
			s.SyncOnce(ctx)
			timer.Reset(s.cfg.Housekeeping.Interval)
		}
	}
}

// SyncOnce performs a single round of the facilities feed reconciliation.
func (s *Service) SyncOnce(ctx context.Context) {
	log.Println("Executing housekeeping sync cycle...")

	var allItems []store.FacilityItem
	total := 1
	pageSize := s.cfg.Housekeeping.Request.PageSize
	var fetchErr error
	for page := 1; (page-1)*pageSize < total; page++ {
		resp, err := s.fetchPage(ctx, page)
		if err != nil {
			log.Printf("Error fetching page %d: %v", page, err)
			fetchErr = err
			break
		}
		if resp.Data.Total == 0 || len(resp.Data.Items) == 0 {
			break
		}
		total = resp.Data.Total
		allItems = append(allItems, resp.Data.Items...)
	}

	// An empty feed after a fetch error is indistinguishable from a feed
	// outage; do not touch room conditions in that case.
	if fetchErr != nil && len(allItems) == 0 {
		log.Println("Sync cycle aborted due to fetch error with no items retrieved. Room conditions will not be updated.")
		return
	}

	if len(allItems) == 0 {
		log.Println("Sync cycle finished: no items to process.")
		return
	}

	if err := s.store.UpsertRooms(ctx, allItems, s.classifyCondition); err != nil {
		log.Printf("Error upserting rooms: %v", err)
		return
	}

	log.Println("Housekeeping sync cycle finished.")
}

// fetchPage fetches a single page of room data from the facilities feed.
func (s *Service) fetchPage(ctx context.Context, page int) (*ApiResponse, error) {
	payload := make(map[string]any)
	for k, v := range s.cfg.Housekeeping.Request.Payload {
		payload[k] = v
	}
	payload["page"] = page

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Housekeeping.Request.URL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range s.cfg.Housekeeping.Request.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp ApiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal api response: %w", err)
	}

	if apiResp.Code != 0 {
		return nil, fmt.Errorf("API returned non-zero application code: %d", apiResp.Code)
	}

	return &apiResp, nil
}
