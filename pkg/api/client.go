package api

// BACKEND API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type Client struct {
	baseURL        string
	geocodeBaseURL string
	apiKey         string
	httpClient     *http.Client
	logger         *zap.Logger
}

// APIError is a non-2xx backend response. The message is the backend's own
// text when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Location struct {
	Address       string    `json:"address,omitempty"`
	ManualAddress string    `json:"manualAddress,omitempty"`
	Coordinates   []float64 `json:"coordinates,omitempty"`
}

type BathroomItems struct {
	General bool `json:"general"`
	Sink    bool `json:"sink"`
	Toilet  bool `json:"toilet"`
}

type WindowCount struct {
	Small      int  `json:"small"`
	Large      int  `json:"large"`
	WholeHouse bool `json:"wholeHouse"`
}

type BookingRequest struct {
	Contact         Contact `json:"contact"`
	ServiceCategory string  `json:"serviceCategory"`

	// Car detailing.
	VehicleType    string   `json:"vehicleType,omitempty"`
	ServicePackage string   `json:"carServicePackage,omitempty"`
	PaintStage     string   `json:"paintCorrectionStage,omitempty"`
	PricingTier    string   `json:"midSUVPricingTier,omitempty"`
	FleetCarCount  int      `json:"fleetCarCount,omitempty"`
	Extras         []string `json:"selectedCarExtras,omitempty"`

	// Home cleaning.
	CleaningCategory  string         `json:"cleaningCategory,omitempty"`
	RoomSize          string         `json:"roomSize,omitempty"`
	HouseCleaningType string         `json:"houseCleaningType,omitempty"`
	FumigationType    string         `json:"fumigationType,omitempty"`
	BathroomItems     *BathroomItems `json:"bathroomItems,omitempty"`
	WindowCount       *WindowCount   `json:"windowCount,omitempty"`

	Location      Location `json:"location"`
	BookingType   string   `json:"bookingType"`
	ScheduledDate string   `json:"scheduledDate,omitempty"`
	ScheduledTime string   `json:"scheduledTime,omitempty"`
	PaymentMethod string   `json:"paymentMethod"`
	Price         int      `json:"price"`
	PaymentStatus string   `json:"paymentStatus"`
}

type Booking struct {
	ID              string `json:"id"`
	Reference       string `json:"bookingReference"`
	Status          string `json:"status"`
	ServiceCategory string `json:"serviceCategory"`
	TotalPrice      int    `json:"totalPrice"`
	CreatedAt       string `json:"createdAt"`
}

func NewClient(baseURL, geocodeBaseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:        baseURL,
		geocodeBaseURL: geocodeBaseURL,
		apiKey:         apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CreateBooking submits a completed booking draft once. No retries: the
// caller keeps the draft intact on failure and the user resubmits.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		"POST",
		fmt.Sprintf("%s/bookings/public", c.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.responseError(resp)
	}

	var result struct {
		Booking Booking `json:"booking"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Info("booking created",
		zap.String("reference", result.Booking.Reference),
		zap.Int("total_price", result.Booking.TotalPrice),
	)
	return &result.Booking, nil
}

// ReverseGeocode resolves coordinates to a display address. Transient
// failures retry with backoff; callers fall back to raw coordinates when it
// still fails.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	var address string

	operation := func() error {
		q := url.Values{}
		q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
		q.Set("lng", strconv.FormatFloat(lng, 'f', 6, 64))

		req, err := http.NewRequestWithContext(
			ctx,
			"GET",
			fmt.Sprintf("%s/geocode/reverse?%s", c.geocodeBaseURL, q.Encode()),
			nil,
		)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := c.responseError(resp)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		var result struct {
			Address string `json:"address"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		address = result.Address
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	notify := func(err error, next time.Duration) {
		c.logger.Warn("reverse geocode retry",
			zap.Error(err),
			zap.Duration("next_attempt", next),
		)
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}

	return address, nil
}

func (c *Client) responseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}
