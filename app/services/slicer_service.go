package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cetak3d/go-printshop/app/models/other"
)

// SlicerClient wraps the SuperSlice microservice that computes filament
// weight and print-time estimates for an uploaded model.
type SlicerClient interface {
	Slice(ctx context.Context, fileData []byte, req other.SliceRequest) (*other.SliceResponse, error)
}

type superSliceService struct {
	client  *http.Client
	baseURL string
}

func NewSlicerClient(baseURL string) SlicerClient {
	return &superSliceService{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
	}
}

func (s *superSliceService) Slice(ctx context.Context, fileData []byte, sliceReq other.SliceRequest) (*other.SliceResponse, error) {

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", sliceReq.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart file field: %w", err)
	}
	if _, err := part.Write(fileData); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}

	fields := map[string]string{
		"layer_height":   sliceReq.LayerHeight,
		"infill_density": sliceReq.InfillDensity,
		"wall_count":     sliceReq.WallCount,
		"filament_type":  sliceReq.FilamentType,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/slice", &buf)
	if err != nil {
		log.Printf("SlicerClient: Error creating slice request: %v", err)
		return nil, fmt.Errorf("failed to create slice request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	log.Printf("SlicerClient: Sending %s (%d bytes) to slicer. LayerHeight=%s, Infill=%s, Walls=%s, Filament=%s",
		sliceReq.FileName, len(fileData), sliceReq.LayerHeight, sliceReq.InfillDensity, sliceReq.WallCount, sliceReq.FilamentType)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("SlicerClient: Error performing request to slicer: %v", err)
		return nil, fmt.Errorf("failed to perform slice request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("SlicerClient: Error reading slicer response body: %v", err)
		return nil, fmt.Errorf("failed to read slice response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("SlicerClient: Slicer returned non-OK status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("slicer API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var sliceResp other.SliceResponse
	if err := json.Unmarshal(body, &sliceResp); err != nil {
		log.Printf("SlicerClient: Error unmarshalling slicer response: %v, Raw Body: %s", err, string(body))
		return nil, fmt.Errorf("failed to parse slice response: %w", err)
	}

	log.Printf("SlicerClient: Sliced %s successfully. PrintTime=%.1f min, Weight=%.1f g",
		sliceReq.FileName, sliceResp.PrintTimeMinutes, sliceResp.FilamentWeightG)

	return &sliceResp, nil
}
