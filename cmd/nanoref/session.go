package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/nanoref/docstore"
	"github.com/arthur-debert/nanoref/nanoref"
	"github.com/arthur-debert/nanoref/search"
	"github.com/arthur-debert/nanoref/types"
)

// session bundles everything a subcommand works with: the store, the
// field declaration, and an editor persisting to the sidecar file
type session struct {
	store  *docstore.Store
	editor *nanoref.Editor
	schema types.FieldSchema
	opts   types.Options
	refs   string
}

// openStore opens just the document store, for commands that do not
// edit a field
func openStore() (*docstore.Store, error) {
	path := viperInst.GetString("store")
	store, err := docstore.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	return store, nil
}

// refsPath resolves where the reference field file lives: the --refs
// flag, or "<field>.refs.json" next to the store
func refsPath(storePath, field string) string {
	if path := viperInst.GetString("refs"); path != "" {
		return path
	}
	name := strings.ReplaceAll(field, string(filepath.Separator), "_")
	return filepath.Join(filepath.Dir(storePath), name+".refs.json")
}

// openSession assembles the editor over the store and the sidecar
// field file. notify may be nil for one-shot commands.
func openSession(notify func(search.Update)) (*session, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}

	schema, opts, err := loadSchema(viperInst.GetString("schema"))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	refs := refsPath(viperInst.GetString("store"), schema.Name)
	initial, err := nanoref.LoadFieldFile(refs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	editor, err := nanoref.New(nanoref.Config{
		Schema:    schema,
		Options:   &opts,
		Provider:  store,
		Expander:  store,
		Committer: nanoref.NewFileCommitter(refs, schema.Name),
		Notify:    notify,
		Initial:   initial,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &session{
		store:  store,
		editor: editor,
		schema: schema,
		opts:   opts,
		refs:   refs,
	}, nil
}

// close releases the session's resources
func (s *session) close() {
	_ = s.editor.Close()
	_ = s.store.Close()
}
