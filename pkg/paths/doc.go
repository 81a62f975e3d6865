// Package paths provides centralized path handling for wsltoolbar.
// It resolves XDG locations for menus, applications and icon themes and
// translates paths between the WSL view and the Windows view of the
// filesystem.
package paths
