package domain

// UploadResult acknowledges an accepted upload.
type UploadResult struct {
	BatchID string `json:"batchId"`
	Slot    string `json:"slot"`
	Rows    int    `json:"rows"`
}

// PipelineMetrics is the counter snapshot served on /v1/metrics/pipeline.
type PipelineMetrics struct {
	UploadsAccepted    int64   `json:"uploadsAccepted"`
	UploadsRejected    int64   `json:"uploadsRejected"`
	UnmatchedPurchases int64   `json:"unmatchedPurchases"`
	CacheHitRate       float64 `json:"cacheHitRate"`
	Exports            int64   `json:"exports"`
}
