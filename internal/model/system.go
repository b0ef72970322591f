package model

// VersionInfo contains the application version and the applied database schema version.
type VersionInfo struct {
	AppVersion string `json:"app_version"`
	DBVersion  int64  `json:"db_version"`
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}
