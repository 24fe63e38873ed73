package dto

type UploadResponse struct {
	URL       string `json:"url"`
	MediaKind string `json:"media_kind"`
}
