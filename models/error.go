package models

// Error is the JSON body written for every failed request.
type Error struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type Count struct {
	Total int `json:"total"`
}
