package constants

// Static route constants
const (
	PublicRoute  = "/"
	MetricsRoute = "/metrics"
	DocsBasePath = "/docs/api/"
	// Lead pages without trailing slash for URL construction
	StatusRoute  = "/status"
	PreviewRoute = "/preview"
)
