// Package shortcut turns a launch entry into a Windows shortcut.
//
// Decompose splits the target executable into the drive, folder and file
// levels that make up the shell item id list of a .lnk file. Assemble builds
// the immutable ShortcutDescriptor, and a Persister writes it: LinkWriter
// encodes the MS-SHLLINK binary format directly, PowerShellPersister drives
// the WScript.Shell COM object on the Windows side.
package shortcut
