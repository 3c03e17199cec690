package ps

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/object"
	json "github.com/goccy/go-json"
)

// Revision is one archived snapshot commit.
type Revision struct {
	Id      string
	Message string
	When    time.Time
}

// commitSnapshot records the snapshot document as a commit in the embedded
// repository using the plumbing API, without touching the worktree.
func (p *Persistence) commitSnapshot(data []byte, message string) (Revision, error) {
	blobHash, err := p.createBlob(data)
	if err != nil {
		return Revision{}, err
	}

	currentTree, err := p.currentTree()
	if err != nil {
		return Revision{}, err
	}

	newTree, err := p.updateTreeFile(currentTree, p.snapshotFile(), blobHash)
	if err != nil {
		return Revision{}, err
	}

	return p.createCommit(newTree, message)
}

// createBlob stores raw bytes as a blob object in the object store
func (p *Persistence) createBlob(data []byte) (plumbing.Hash, error) {
	obj := p.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to create blob writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("failed to write blob data: %w", err)
	}
	writer.Close()

	hash, err := p.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store blob: %w", err)
	}

	return hash, nil
}

// currentTree returns the tree hash from the current HEAD commit.
// Returns ZeroHash if the repository has no commits yet.
func (p *Persistence) currentTree() (plumbing.Hash, error) {
	headRef, err := p.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, nil
	}

	commit, err := p.repo.CommitObject(headRef.Hash())
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get head commit: %w", err)
	}

	return commit.TreeHash, nil
}

// updateTreeFile returns a new root tree with name pointing at blobHash,
// keeping every other entry of the current tree.
func (p *Persistence) updateTreeFile(treeHash plumbing.Hash, name string, blobHash plumbing.Hash) (plumbing.Hash, error) {
	entries := make(map[string]object.TreeEntry)

	if treeHash != plumbing.ZeroHash {
		tree, err := object.GetTree(p.repo.Storer, treeHash)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("failed to get tree: %w", err)
		}
		for _, entry := range tree.Entries {
			entries[entry.Name] = entry
		}
	}

	entries[name] = object.TreeEntry{
		Name: name,
		Mode: filemode.Regular,
		Hash: blobHash,
	}

	entrySlice := make([]object.TreeEntry, 0, len(entries))
	for _, entry := range entries {
		entrySlice = append(entrySlice, entry)
	}

	tree := &object.Tree{Entries: entrySlice}
	obj := p.repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to encode tree: %w", err)
	}

	hash, err := p.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to store tree: %w", err)
	}

	return hash, nil
}

// createCommit creates a commit object pointing at treeHash and advances HEAD
func (p *Persistence) createCommit(treeHash plumbing.Hash, message string) (Revision, error) {
	var parentHashes []plumbing.Hash
	headRef, err := p.repo.Head()
	if err == nil {
		parentHashes = []plumbing.Hash{headRef.Hash()}
	}

	sig := object.Signature{
		Name:  p.identity.Name,
		Email: p.identity.Email,
		When:  time.Now(),
	}

	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     treeHash,
		ParentHashes: parentHashes,
	}

	obj := p.repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return Revision{}, fmt.Errorf("failed to encode commit: %w", err)
	}

	commitHash, err := p.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return Revision{}, fmt.Errorf("failed to store commit: %w", err)
	}

	branchName := plumbing.Master
	if headRef != nil && headRef.Name().IsBranch() {
		branchName = headRef.Name()
	}

	ref := plumbing.NewHashReference(branchName, commitHash)
	if err := p.repo.Storer.SetReference(ref); err != nil {
		return Revision{}, fmt.Errorf("failed to update HEAD: %w", err)
	}

	return Revision{
		Id:      commitHash.String(),
		Message: message,
		When:    sig.When,
	}, nil
}

// Revisions lists archived snapshot commits, newest first.
func (p *Persistence) Revisions() ([]Revision, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	headRef, err := p.repo.Head()
	if err != nil {
		return nil, nil
	}

	iter, err := p.repo.Log(&git.LogOptions{From: headRef.Hash()})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var revisions []Revision
	err = iter.ForEach(func(commit *object.Commit) error {
		revisions = append(revisions, Revision{
			Id:      commit.Hash.String(),
			Message: commit.Message,
			When:    commit.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return revisions, nil
}

// RestoreRevision rewrites the live snapshot from an archived commit and
// returns the restored snapshot. The restore itself is archived as a new
// commit, so history is never rewound.
func (p *Persistence) RestoreRevision(id string) (*Snapshot, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	commit, err := p.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("revision %s not found: %w", id, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	file, err := tree.File(p.snapshotFile())
	if err != nil {
		return nil, fmt.Errorf("revision %s holds no snapshot: %w", id, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(content), &snapshot); err != nil {
		return nil, err
	}

	if err := p.writeFileAtomic(p.snapshotFile(), []byte(content)); err != nil {
		return nil, err
	}

	if _, err := p.commitSnapshot([]byte(content), "Restore "+id); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
