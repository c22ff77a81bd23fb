package models

// Project groups tasks. Color is conventionally a hex code such as "#3b82f6".
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
