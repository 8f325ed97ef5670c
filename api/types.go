package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler    healthHandler
	siteHandler      siteHandler
	connectHandler   connectHandler
	articleHandler   articleHandler
	publishHandler   publishHandler
	reconcileHandler reconcileHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error        string `json:"error" example:"Authentication failed"`
	Status       string `json:"status" example:"error"`
	Code         string `json:"code,omitempty" example:"auth_failed"`
	Hint         string `json:"hint,omitempty" example:"Make sure the Basic Auth plugin is installed"`
	RemoteStatus int    `json:"remoteStatus,omitempty" example:"401"`
	Field        string `json:"field,omitempty" example:"title"`
	Details      string `json:"details,omitempty" example:"Additional error details"`
	Cause        string `json:"cause,omitempty" example:"Underlying error cause"`
}
