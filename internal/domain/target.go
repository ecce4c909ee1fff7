package domain

// UploadTarget is the route uploads apply to.
type UploadTarget struct {
	Name       string `json:"name"`
	MaxSegment int    `json:"max_segment"`
}

// SegmentCount returns the exclusive upper bound of the segment range to upload.
func (t UploadTarget) SegmentCount() int {
	return t.MaxSegment + 1
}
