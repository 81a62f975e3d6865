// Package types defines the core data model shared by the shortcut pipeline:
// the MenuNode sum type produced by the menu loader, the flattened launch
// entries, path segments for shortcut target id lists, icon assets and the
// shortcut descriptor handed to a persister.
package types
