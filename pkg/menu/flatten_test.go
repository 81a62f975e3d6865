package menu

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/types"
)

func app(name string) *types.LaunchEntry {
	return &types.LaunchEntry{ID: name + ".desktop", Name: name, Exec: name, Type: types.EntryTypeApplication}
}

func category(name string, children ...types.MenuNode) *types.Category {
	return (&types.Category{Name: name}).Add(children...)
}

func TestFlatten(t *testing.T) {
	editor := app("Editor")
	terminal := app("Terminal")
	link := &types.LaunchEntry{Name: "Website", Type: "Link"}

	root := category("Applications",
		category("Dev", editor, link),
		terminal,
	)

	flat, err := Flatten(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dev/Editor", "Terminal"}, flat.Keys())
	assert.Equal(t, 2, flat.Len())

	got, ok := flat.Get("Dev/Editor")
	require.True(t, ok)
	assert.Same(t, editor, got)

	got, ok = flat.Get("Terminal")
	require.True(t, ok)
	assert.Same(t, terminal, got)

	_, ok = flat.Get("Dev/Website")
	assert.False(t, ok)
	assert.Empty(t, flat.Collisions)
}

func TestFlattenNested(t *testing.T) {
	root := category("",
		category("A",
			category("B",
				category("C", app("Deep")),
			),
			app("Shallow"),
		),
		category("Empty"),
	)

	flat, err := Flatten(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"A/B/C/Deep", "A/Shallow"}, flat.Keys())
}

func TestFlattenDistinctKeys(t *testing.T) {
	root := category("root",
		category("Games", app("Chess"), app("Go")),
		category("Office", app("Chess"), app("Writer")),
		app("Chess"),
	)

	flat, err := Flatten(root)
	require.NoError(t, err)
	assert.Equal(t, 5, flat.Len())
	assert.ElementsMatch(t, []string{"Games/Chess", "Games/Go", "Office/Chess", "Office/Writer", "Chess"}, flat.Keys())
}

func TestFlattenDuplicate(t *testing.T) {
	first := app("Editor")
	second := app("Editor")
	second.ID = "other-editor.desktop"
	third := app("Editor")

	root := category("root", category("Dev", first, app("Debugger"), second, third))

	flat, err := Flatten(root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateEntry))
	assert.False(t, errors.IsFatal(err))

	var joined interface{ Unwrap() []error }
	require.True(t, stderrors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 2)

	require.NotNil(t, flat)
	assert.Equal(t, []string{"Dev/Editor", "Dev/Debugger"}, flat.Keys())
	kept, _ := flat.Get("Dev/Editor")
	assert.Same(t, first, kept, "the first entry keeps its path")

	require.Len(t, flat.Collisions, 2)
	assert.Equal(t, "Dev/Editor", flat.Collisions[0].Path)
	assert.Same(t, second, flat.Collisions[0].Extra)
	assert.Same(t, third, flat.Collisions[1].Extra)
}

func TestFlattenDuplicateIgnoresCase(t *testing.T) {
	upper := app("Editor")
	lower := app("editor")
	root := category("root",
		category("Dev", upper, lower),
		category("dev", app("EDITOR"), app("Debugger")),
	)

	flat, err := Flatten(root)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateEntry))
	assert.Equal(t, []string{"Dev/Editor", "dev/Debugger"}, flat.Keys())

	require.Len(t, flat.Collisions, 2)
	assert.Equal(t, "Dev/editor", flat.Collisions[0].Path)
	assert.Same(t, upper, flat.Collisions[0].Kept)
	assert.Same(t, lower, flat.Collisions[0].Extra)
	assert.Equal(t, "dev/EDITOR", flat.Collisions[1].Path)
	assert.Same(t, upper, flat.Collisions[1].Kept)

	_, ok := flat.Get("Dev/editor")
	assert.False(t, ok, "the losing spelling is not stored")
}

func TestFlattenSanitizesNames(t *testing.T) {
	root := category("root", category("Sound & Video", app("AC/DC: Player?")))

	flat, err := Flatten(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sound & Video/AC_DC_ Player_"}, flat.Keys())
}

func TestFlattenNilRoot(t *testing.T) {
	_, err := Flatten(nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMenuParse))
}
