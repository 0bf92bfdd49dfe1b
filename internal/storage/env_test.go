package storage

import (
	"os"
	"testing"
)

func TestIsCloudHost(t *testing.T) {
	clearHostMarkers(t)

	if IsCloudHost() {
		t.Fatal("IsCloudHost() = true with no host markers")
	}

	t.Setenv(envWebsiteInstanceID, "instance-0042")
	if !IsCloudHost() {
		t.Error("IsCloudHost() = false with WEBSITE_INSTANCE_ID set")
	}

	os.Unsetenv(envWebsiteInstanceID)
	t.Setenv(envFunctionsRuntime, "python")
	if !IsCloudHost() {
		t.Error("IsCloudHost() = false with FUNCTIONS_WORKER_RUNTIME set")
	}
}
