package models

// RequesterContext describes who is viewing the product
type RequesterContext struct {
	Roles         []string `json:"roles"`
	Authenticated bool     `json:"authenticated"`
}

// DeviceContext describes the device rendering the page
type DeviceContext struct {
	IsMobile bool `json:"is_mobile"`
}
