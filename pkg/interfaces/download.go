package interfaces

import "context"

// DownloadTrigger offers exported text to the user as a file. Callers treat
// it as fire-and-forget; a returned error is only logged.
type DownloadTrigger interface {
	Offer(ctx context.Context, filename string, text string) error
}
