package dto

// ExportRequest prints a notebook out to an archive.
type ExportRequest struct {
	IncludeRecycle bool `json:"includeRecycle" form:"includeRecycle"`
}

// ExportResultDTO points at the produced archive.
type ExportResultDTO struct {
	FileKey   string `json:"fileKey"`
	URL       string `json:"url,omitempty"`
	NodeCount int    `json:"nodeCount"`
	Size      int64  `json:"size"`
}

// ImportRequest scans an archive back into a notebook.
type ImportRequest struct {
	Overwrite bool `json:"overwrite" form:"overwrite"`
}

// ImportResultDTO import outcome counters.
type ImportResultDTO struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
