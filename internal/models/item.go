package models

import "time"

// Item is a single row of the source table. ID is assigned at load time
// from the row position and is only stable within one loaded snapshot.
type Item struct {
	ID       int    `json:"id"`
	Name     string `json:"Name"`
	Image    string `json:"Image"`
	Category string `json:"Category"`
	Where    string `json:"where"`
	Marca    string `json:"Marca"`
}

// ItemPage is one page of a filtered item listing
type ItemPage struct {
	Total int    `json:"total"`
	Items []Item `json:"items"`
}

// CategoryCount is the number of rows sharing one Category value
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Health reports whether a dataset is loaded
type Health struct {
	OK   bool `json:"ok"`
	Rows int  `json:"rows"`
}

// ReloadResult is returned by the reload endpoint
type ReloadResult struct {
	OK         bool      `json:"ok"`
	Rows       int       `json:"rows"`
	SnapshotID string    `json:"snapshot_id"`
	LoadedAt   time.Time `json:"loaded_at"`
	Changed    bool      `json:"changed"`
}
