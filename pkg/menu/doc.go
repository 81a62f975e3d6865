// Package menu reads the freedesktop application menu and flattens it.
//
// Load parses a .menu XML file (with its MergeFile and MergeDir includes),
// scans the application directories it names for .desktop files and applies
// the Include/Exclude rules, producing a tree of *types.Category and
// *types.LaunchEntry. Flatten turns that tree into the ordered mapping of
// "Category/Sub/Entry" paths the pipeline creates shortcuts for.
package menu
