package ps

import (
	"errors"
	"io"
	"os"
	"sync"

	billy "github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"
	json "github.com/goccy/go-json"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

var (
	ErrNotInitialized = errors.New("persistence layer not initialized")
	ErrNoSnapshot     = errors.New("no snapshot exists")
)

// DefaultIdentity is recorded on archive commits when no identity is set.
var DefaultIdentity = core.Identity{Name: "pesadb", Email: "pesadb@localhost"}

// Persistence stores a database snapshot as a single JSON document on a
// billy filesystem and records every save as a commit in an embedded git
// repository, giving each database a browsable revision history.
//
// Snapshot writes are atomic: the document is written to a temporary file
// and renamed over the live one, so a crash mid-write can never leave a
// truncated snapshot behind.
type Persistence struct {
	fs           billy.Filesystem
	repo         *git.Repository
	name         string
	identity     core.Identity
	mu           sync.RWMutex
	isMemoryMode bool
}

// IsInitialized returns true if the persistence layer has a valid filesystem
func (p *Persistence) IsInitialized() bool {
	return p != nil && p.fs != nil
}

func (p *Persistence) ensureInitialized() error {
	if !p.IsInitialized() {
		return ErrNotInitialized
	}
	return nil
}

// Name returns the database name this persistence layer serves.
func (p *Persistence) Name() string {
	return p.name
}

// IsMemoryMode reports whether snapshots live only in process memory.
func (p *Persistence) IsMemoryMode() bool {
	return p.isMemoryMode
}

// SetIdentity sets the author recorded on archive commits.
func (p *Persistence) SetIdentity(identity core.Identity) {
	p.identity = identity
}

func (p *Persistence) snapshotFile() string {
	return p.name + ".json"
}

func NewMemoryPersistence(name string) (Persistence, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return Persistence{}, err
	}

	return Persistence{
		fs:           wt,
		repo:         repo,
		name:         name,
		identity:     DefaultIdentity,
		isMemoryMode: true,
	}, nil
}

func NewFilePersistence(baseDir, name string) (Persistence, error) {
	// Ensure base directory exists
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return Persistence{}, err
	}

	wt := osfs.New(baseDir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return Persistence{}, err
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository

	if _, statErr := os.Stat(fs.Root()); statErr != nil {
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return Persistence{}, err
	}

	return Persistence{
		fs:       wt,
		repo:     repo,
		name:     name,
		identity: DefaultIdentity,
	}, nil
}

// SnapshotExists reports whether a snapshot document is present.
func (p *Persistence) SnapshotExists() bool {
	if !p.IsInitialized() {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	_, err := p.fs.Stat(p.snapshotFile())
	return err == nil
}

// WriteSnapshot persists a snapshot atomically and records it in the archive.
func (p *Persistence) WriteSnapshot(snapshot *Snapshot) error {
	if err := p.ensureInitialized(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.writeFileAtomic(p.snapshotFile(), data); err != nil {
		return err
	}

	_, err = p.commitSnapshot(data, "Snapshot "+snapshot.Revision)
	return err
}

// writeFileAtomic stages data in a temporary file and renames it over the
// destination. Rename is atomic on the filesystems billy wraps.
func (p *Persistence) writeFileAtomic(name string, data []byte) error {
	tmp := name + ".tmp"
	if err := util.WriteFile(p.fs, tmp, data, 0644); err != nil {
		return err
	}
	return p.fs.Rename(tmp, name)
}

// ReadSnapshot loads the current snapshot, returning ErrNoSnapshot when none
// has been written yet.
func (p *Persistence) ReadSnapshot() (*Snapshot, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	file, err := p.fs.Open(p.snapshotFile())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
