package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cetak3d/go-printshop/app/models/other"
)

const (
	// Orders under the floor are billed as if they weighed the floor amount.
	MinShippableWeightGrams = 300

	// Below this threshold heavy-cargo services are filtered from the offer.
	CargoWeightThresholdGrams = 10000
)

// cargoServiceKeywords mark courier services meant for heavy-cargo shipments
// only. They are misleading for small parcels.
var cargoServiceKeywords = []string{"JTR", "CARGO", "TRUCK"}

type ShippingClient interface {
	CalculateCost(ctx context.Context, originID, destinationID int, weight int, courier string) ([]other.KomerceCostDetail, error)
	SearchDomesticDestinations(ctx context.Context, query string, limit, offset int) ([]other.KomerceDomesticDestination, error)
}

type komerceShippingService struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewKomerceShippingClient(baseURL, apiKey string) ShippingClient {
	return &komerceShippingService{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

func (s *komerceShippingService) doRequest(ctx context.Context, method, fullPath string, body *bytes.Buffer, contentType string) ([]byte, error) {

	fullURL := s.baseURL + fullPath

	if body == nil {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("komerce API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func (s *komerceShippingService) CalculateCost(ctx context.Context, originID, destinationID int, weight int, courier string) ([]other.KomerceCostDetail, error) {
	formData := url.Values{}
	formData.Add("origin", fmt.Sprintf("%d", originID))
	formData.Add("destination", fmt.Sprintf("%d", destinationID))
	formData.Add("weight", fmt.Sprintf("%d", weight))
	formData.Add("courier", courier)
	formData.Add("price", "lowest")

	log.Printf("ShippingService: Calling Komerce cost API. Origin=%d, Destination=%d, Weight=%d, Courier=%s", originID, destinationID, weight, courier)

	body, err := s.doRequest(ctx, "POST", "/v1/calculate/domestic-cost", bytes.NewBufferString(formData.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	var apiResponse other.KomerceShippingCostResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse shipping cost response: %w", err)
	}

	if apiResponse.Meta.Code != 200 || apiResponse.Meta.Status != "success" {
		return nil, fmt.Errorf("komerce API returned error status: %d - %s", apiResponse.Meta.Code, apiResponse.Meta.Message)
	}

	return apiResponse.Data, nil
}

func (s *komerceShippingService) SearchDomesticDestinations(ctx context.Context, query string, limit, offset int) ([]other.KomerceDomesticDestination, error) {
	params := url.Values{}
	params.Add("search", query)
	params.Add("limit", fmt.Sprintf("%d", limit))
	params.Add("offset", fmt.Sprintf("%d", offset))

	fullPath := fmt.Sprintf("/v1/destination/domestic-destination?%s", params.Encode())

	body, err := s.doRequest(ctx, "GET", fullPath, nil, "application/json")
	if err != nil {
		return nil, err
	}

	var apiResponse other.KomerceSearchDestinationResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse destination search response: %w", err)
	}

	if apiResponse.Meta.Code != 200 || apiResponse.Meta.Status != "success" {
		return nil, fmt.Errorf("komerce API returned error status: %d - %s", apiResponse.Meta.Code, apiResponse.Meta.Message)
	}

	return apiResponse.Data, nil
}

// BillableWeight applies the minimum shippable weight floor.
func BillableWeight(weightGrams int) int {
	if weightGrams < MinShippableWeightGrams {
		return MinShippableWeightGrams
	}
	return weightGrams
}

func isCargoOnlyService(detail other.KomerceCostDetail) bool {
	service := strings.ToUpper(detail.Service)
	description := strings.ToUpper(detail.Description)
	for _, keyword := range cargoServiceKeywords {
		if strings.Contains(service, keyword) || strings.Contains(description, keyword) {
			return true
		}
	}
	return false
}

// FilterShippingOptions drops heavy-cargo-only services for shipments under
// the cargo threshold and normalizes the rest into selectable options.
func FilterShippingOptions(details []other.KomerceCostDetail, weightGrams int) []other.ShippingOption {
	options := make([]other.ShippingOption, 0, len(details))
	for _, detail := range details {
		if weightGrams < CargoWeightThresholdGrams && isCargoOnlyService(detail) {
			continue
		}
		options = append(options, other.ShippingOption{
			Courier:     detail.Code,
			CourierName: detail.Name,
			Service:     detail.Service,
			Description: detail.Description,
			Cost:        detail.Cost,
			Etd:         detail.Etd,
		})
	}
	return options
}

// ShippingRateResolver queries courier rates for a destination and weight
// and yields the filtered list of selectable options.
type ShippingRateResolver struct {
	client   ShippingClient
	originID int
}

func NewShippingRateResolver(client ShippingClient, originID int) *ShippingRateResolver {
	return &ShippingRateResolver{client: client, originID: originID}
}

func (r *ShippingRateResolver) GetShippingOptions(ctx context.Context, destinationID, weightGrams int, courier string) ([]other.ShippingOption, error) {
	if destinationID == 0 {
		return nil, fmt.Errorf("address has no resolved destination id")
	}

	billable := BillableWeight(weightGrams)
	if billable != weightGrams {
		log.Printf("ShippingService: Weight %dg is under the %dg floor, billing as %dg", weightGrams, MinShippableWeightGrams, billable)
	}

	details, err := r.client.CalculateCost(ctx, r.originID, destinationID, billable, courier)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate shipping cost: %w", err)
	}

	options := FilterShippingOptions(details, billable)
	log.Printf("ShippingService: %d of %d services offered for destination %d (%dg)", len(options), len(details), destinationID, billable)
	return options, nil
}
