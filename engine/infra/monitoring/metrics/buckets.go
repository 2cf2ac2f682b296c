package metrics

// RunDurationBuckets spans whole extraction runs, from sub-second text
// inputs to multi-minute scanned PDFs.
var RunDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// HTTPDurationBuckets covers per-request latency on the API surface.
var HTTPDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// UploadSizeBuckets sizes uploaded document bodies in bytes.
var UploadSizeBuckets = []float64{10_000, 100_000, 1_000_000, 5_000_000, 10_000_000, 50_000_000}
