// ABOUTME: Domain interfaces for dependency inversion
// ABOUTME: Allows the resolver to depend on abstractions, not concrete implementations
package domain

import "context"

// SourceAdapter fetches current-song metadata from one upstream source.
// Fetch never returns an error; failures of any kind become NoData.
type SourceAdapter interface {
	Name() string
	Fetch(ctx context.Context) AdapterResult
}

// ArtworkProvider resolves cover art for a song. Lookup never fails;
// it returns the placeholder sentinel when no artwork can be found.
type ArtworkProvider interface {
	Lookup(ctx context.Context, song Song) string
}

// HistoryRepository is the durable play-history store.
type HistoryRepository interface {
	// Latest returns the most recent entry by played_at, or nil when
	// the history is empty.
	Latest(ctx context.Context) (*HistoryEntry, error)
	Insert(ctx context.Context, entry HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
	Close() error
}
