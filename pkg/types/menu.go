package types

// EntryTypeApplication is the only desktop entry type that can be launched
const EntryTypeApplication = "Application"

// MenuNode is either a *Category or a *LaunchEntry.
// The unexported marker method closes the set of implementations.
type MenuNode interface {
	menuNode()
}

// Category is a menu folder with ordered children
type Category struct {
	Name     string
	Children []MenuNode
}

// LaunchEntry is a single desktop entry inside a category
type LaunchEntry struct {
	// ID is the desktop-file id (e.g. "org.gnome.gedit.desktop")
	ID         string
	Name       string
	Exec       string
	Icon       string
	WorkingDir string
	Comment    string
	Terminal   bool
	Type       string
	Categories []string
	SourcePath string
}

func (*Category) menuNode()    {}
func (*LaunchEntry) menuNode() {}

// Launchable reports whether the entry is of type Application
func (e *LaunchEntry) Launchable() bool {
	return e.Type == EntryTypeApplication
}

// Add appends children in order and returns the category for chaining
func (c *Category) Add(children ...MenuNode) *Category {
	c.Children = append(c.Children, children...)
	return c
}
