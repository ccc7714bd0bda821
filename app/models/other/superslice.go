package other

// SliceRequest carries the print-affecting parameters sent alongside the
// model file to the SuperSlice service.
type SliceRequest struct {
	FileName      string
	LayerHeight   string
	InfillDensity string
	WallCount     string
	FilamentType  string
}

type SliceResponse struct {
	PrintTimeMinutes float64 `json:"print_time_minutes"`
	FilamentWeightG  float64 `json:"filament_weight_g"`
	FilamentLengthMm float64 `json:"filament_length_mm"`
	LayerCount       int     `json:"layer_count"`
	SlicerVersion    string  `json:"slicer_version"`
}
