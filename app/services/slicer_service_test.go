package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cetak3d/go-printshop/app/models/other"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlicerClient_Slice(t *testing.T) {
	fileData := []byte("solid cube\nendsolid cube\n")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/slice", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1 << 20))
		assert.Equal(t, "0.20", r.FormValue("layer_height"))
		assert.Equal(t, "15", r.FormValue("infill_density"))
		assert.Equal(t, "3", r.FormValue("wall_count"))
		assert.Equal(t, "PLA", r.FormValue("filament_type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cube.stl", header.Filename)
		uploaded, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, fileData, uploaded)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"print_time_minutes": 92.5, "filament_weight_g": 14.2, "filament_length_mm": 4730, "layer_count": 152, "slicer_version": "5.6.0"}`))
	}))
	defer server.Close()

	client := NewSlicerClient(server.URL)

	resp, err := client.Slice(context.Background(), fileData, other.SliceRequest{
		FileName:      "cube.stl",
		LayerHeight:   "0.20",
		InfillDensity: "15",
		WallCount:     "3",
		FilamentType:  "PLA",
	})
	require.NoError(t, err)
	assert.Equal(t, 92.5, resp.PrintTimeMinutes)
	assert.Equal(t, 14.2, resp.FilamentWeightG)
	assert.Equal(t, 152, resp.LayerCount)
}

func TestSlicerClient_Slice_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "unsliceable geometry"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewSlicerClient(server.URL)

	_, err := client.Slice(context.Background(), []byte("bad"), other.SliceRequest{FileName: "bad.stl", LayerHeight: "0.20"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSlicerClient_Slice_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewSlicerClient(server.URL)

	_, err := client.Slice(context.Background(), []byte("data"), other.SliceRequest{FileName: "cube.stl"})
	assert.Error(t, err)
}
