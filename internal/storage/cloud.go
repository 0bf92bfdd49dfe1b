package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// CloudHandle is the credentialed cloud backend: one blob container, with
// dir mapping to a blob-name prefix. Authentication uses the default
// credential chain, which resolves to the host's managed identity in the
// cloud and to a locally cached developer credential on a workstation.
//
// The credential's tokens have a bounded lifetime; the manager, not the
// handle, is responsible for discarding a CloudHandle before its tokens can
// expire.
type CloudHandle struct {
	client    *azblob.Client
	account   string
	container string
	logger    *slog.Logger
}

// NewCloudHandle builds a cloud handle for the given account and container.
// The container is created if absent, which doubles as an early probe of the
// credential: a handle that cannot reach its container fails here, at
// construction, where the manager's fallback policy can act on it.
func NewCloudHandle(ctx context.Context, account, container string, logger *slog.Logger) (*CloudHandle, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if account == "" || container == "" {
		return nil, fmt.Errorf("%w: storage account and container are required", ErrInvalidName)
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("acquiring credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", account)
	client, err := azblob.NewClient(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client for %s: %w", account, err)
	}

	if _, err := client.CreateContainer(ctx, container, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("ensuring container %s: %w", container, err)
		}
	}

	return &CloudHandle{client: client, account: account, container: container, logger: logger}, nil
}

// Kind implements Handle.
func (h *CloudHandle) Kind() BackendKind { return BackendCloud }

// blobName joins dir and name into the flat blob namespace.
func blobName(dir, name string) string {
	return path.Join(dir, name)
}

// ReadFile implements Handle. A missing blob reads as (nil, nil).
func (h *CloudHandle) ReadFile(ctx context.Context, dir, name string) ([]byte, error) {
	resp, err := h.client.DownloadStream(ctx, h.container, blobName(dir, name), nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("downloading %s/%s: %w", dir, name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", dir, name, err)
	}
	return data, nil
}

// WriteFile implements Handle.
func (h *CloudHandle) WriteFile(ctx context.Context, dir, name string, content []byte) error {
	if name == "" {
		return fmt.Errorf("%w: empty file name", ErrInvalidName)
	}
	if _, err := h.client.UploadBuffer(ctx, h.container, blobName(dir, name), content, nil); err != nil {
		return fmt.Errorf("uploading %s/%s: %w", dir, name, err)
	}

	h.logger.Debug("wrote file", "backend", BackendCloud, "dir", dir, "name", name, "bytes", len(content))
	return nil
}

// ListFiles implements Handle, listing blobs directly under the dir prefix.
func (h *CloudHandle) ListFiles(ctx context.Context, dir string) ([]FileInfo, error) {
	prefix := dir + "/"
	pager := h.client.NewListBlobsFlatPager(h.container, &azblob.ListBlobsFlatOptions{
		Prefix: to.Ptr(prefix),
	})

	var infos []FileInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := FileInfo{Name: (*item.Name)[len(prefix):]}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					info.ModTime = *item.Properties.LastModified
				}
			}
			infos = append(infos, info)
		}
	}
	return infos, nil
}

// EnsureDirectory implements Handle. The blob namespace is flat; a directory
// exists as soon as a blob carries its prefix, so this is a no-op.
func (h *CloudHandle) EnsureDirectory(ctx context.Context, dir string) error {
	return nil
}

// isAuthError classifies a cloud construction failure as an authentication
// or authorization problem. These are common and expected in local dev
// without the right role assignment, so the manager logs them at a calmer
// level than genuine transport failures.
func isAuthError(err error) bool {
	var authFailed *azidentity.AuthenticationFailedError
	if errors.As(err, &authFailed) {
		return true
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == 401 || respErr.StatusCode == 403
	}
	return false
}
