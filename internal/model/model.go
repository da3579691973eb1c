package model

import "time"

type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Event is one entry of the workspace's append-only change log.
type Event struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  string    `json:"payload,omitempty"`
	IssuedAt time.Time `json:"issuedAt"`
}

const (
	EventFolderCreate  = "folder.create"
	EventFolderRemove  = "folder.remove"
	EventFolderReorder = "folder.reorder"
	EventFolderRepair  = "folder.repair"
)
