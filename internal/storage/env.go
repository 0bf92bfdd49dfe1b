package storage

import "os"

// Host-only environment markers. The cloud function host injects these into
// every worker; they are never present in local development configs, so
// their presence confirms the process is running in the cloud itself rather
// than on a developer machine with cloud credentials configured.
const (
	envWebsiteInstanceID = "WEBSITE_INSTANCE_ID"
	envFunctionsRuntime  = "FUNCTIONS_WORKER_RUNTIME"
)

// IsCloudHost reports whether the process is confirmed to be running inside
// the cloud host. On a confirmed cloud host, failure to obtain cloud storage
// is fatal: a cloud deployment with no storage is a misconfiguration, not a
// normal local-dev situation.
func IsCloudHost() bool {
	return os.Getenv(envWebsiteInstanceID) != "" || os.Getenv(envFunctionsRuntime) != ""
}
