// Package ps provides the persistence layer for pesadb.
//
// A database is stored as a single JSON snapshot on a billy filesystem.
// Saves are atomic (temp file plus rename), and every save is also recorded
// as a commit in an embedded Git repository, so earlier snapshots can be
// listed and restored.
//
// # Memory Persistence
//
// For testing or ephemeral databases:
//
//	persistence, err := ps.NewMemoryPersistence("app")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # File Persistence
//
// For persistent storage:
//
//	persistence, err := ps.NewFilePersistence("/path/to/data", "app")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Snapshot History
//
// Every WriteSnapshot becomes a revision:
//
//	revisions, _ := persistence.Revisions()
//	snapshot, _ := persistence.RestoreRevision(revisions[1].Id)
package ps
