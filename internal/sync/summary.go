package sync

// DocumentAction records what happened to one document during a cycle.
type DocumentAction struct {
	ID     string
	Title  string
	Action string // "synced", "failed" or "would_sync"
}

// FolderSummary describes one folder's share of a cycle.
type FolderSummary struct {
	Total     int
	New       int
	Synced    int
	Failed    int
	Documents []DocumentAction
}

// CycleSummary describes one full poll-detect-deliver-persist pass.
type CycleSummary struct {
	FoldersChecked  int
	DocumentsFound  int
	DocumentsNew    int
	DocumentsSynced int
	DocumentsFailed int
	ByFolder        map[string]*FolderSummary
}
