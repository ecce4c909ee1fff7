package domain

// SaveRouteRequest represents the request body for registering a route.
type SaveRouteRequest struct {
	Name       string `json:"name" validate:"required,route_name"`
	MaxSegment *int   `json:"max_segment" validate:"required,min=0"`
}

// SelectTargetRequest represents the request body for selecting the current target.
type SelectTargetRequest struct {
	Name string `json:"name" validate:"required,route_name"`
}

// ButtonResponse represents one rendered upload button.
type ButtonResponse struct {
	Category Category  `json:"category"`
	Label    string    `json:"label"`
	Icon     string    `json:"icon"`
	Spinning bool      `json:"spinning"`
	Disabled bool      `json:"disabled"`
	State    TaskState `json:"state"`
}

// ClickResponse is returned after a button click was handled.
type ClickResponse struct {
	Dispatched bool           `json:"dispatched"`
	Button     ButtonResponse `json:"button"`
}
