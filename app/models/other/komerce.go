package other

type KomerceMeta struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Status  string `json:"status"`
}

type KomerceSearchDestinationResponse struct {
	Meta KomerceMeta                  `json:"meta"`
	Data []KomerceDomesticDestination `json:"data"`
}

type KomerceDomesticDestination struct {
	ID              int    `json:"id"`
	Label           string `json:"label"`
	ProvinceName    string `json:"province_name"`
	CityName        string `json:"city_name"`
	DistrictName    string `json:"district_name"`
	SubdistrictName string `json:"subdistrict_name"`
	ZipCode         string `json:"zip_code"`
}

type KomerceShippingCostResponse struct {
	Meta KomerceMeta         `json:"meta"`
	Data []KomerceCostDetail `json:"data"`
}

type KomerceCostDetail struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Etd         string `json:"etd"`
}

// ShippingOption is the normalized (service, cost, etd) tuple offered to the
// customer after courier filtering.
type ShippingOption struct {
	Courier     string `json:"courier"`
	CourierName string `json:"courier_name"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Etd         string `json:"etd"`
}
