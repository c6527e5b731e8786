package queue

const (
	TypeProjectPurge    = "project:purge"
	TypeCollectionPurge = "collection:purge"
)

type ProjectPurgePayload struct {
	ProjectID string `json:"project_id"`
	OwnerID   string `json:"owner_id"`
}

type CollectionPurgePayload struct {
	CollectionID string `json:"collection_id"`
	OwnerID      string `json:"owner_id"`
}
