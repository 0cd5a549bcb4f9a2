package vfs

import (
	"fmt"
	"io"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// OpenRepository opens the git repository containing the given directory.
func OpenRepository(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", dir, err)
	}
	return repo, nil
}

// ResolveTree resolves a revision string (branch, tag, commit hash or
// "HEAD") to the root tree of that revision's snapshot.
func ResolveTree(repo *git.Repository, revision string) (Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of commit %s: %w", hash, err)
	}
	return &gitTree{repo: repo, tree: tree}, nil
}

// gitTree adapts a go-git tree object to the Tree interface.
type gitTree struct {
	repo *git.Repository
	tree *object.Tree
}

func (t *gitTree) Entry(name string) (Entry, error) {
	for _, e := range t.tree.Entries {
		if e.Name != name {
			continue
		}

		switch e.Mode {
		case filemode.Symlink:
			blob, err := t.repo.BlobObject(e.Hash)
			if err != nil {
				return Entry{}, fmt.Errorf("reading link target %s: %w", e.Hash, err)
			}
			return Entry{Symlink: true, Node: &gitBlob{blob: blob}}, nil

		case filemode.Dir:
			sub, err := t.repo.TreeObject(e.Hash)
			if err != nil {
				return Entry{}, fmt.Errorf("reading subtree %s: %w", e.Hash, err)
			}
			return Entry{Node: &gitTree{repo: t.repo, tree: sub}}, nil

		default:
			blob, err := t.repo.BlobObject(e.Hash)
			if err != nil {
				return Entry{}, fmt.Errorf("reading blob %s: %w", e.Hash, err)
			}
			return Entry{Node: &gitBlob{blob: blob}}, nil
		}
	}
	return Entry{}, ErrNotFound
}

// gitBlob adapts a go-git blob object to the Blob interface.
type gitBlob struct {
	blob *object.Blob
}

func (b *gitBlob) Content() ([]byte, error) {
	reader, err := b.blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening blob %s: %w", b.blob.Hash, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", b.blob.Hash, err)
	}
	return data, nil
}
